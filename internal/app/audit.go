package app

import (
	"time"

	"github.com/rindelabs/rindestore/internal/domain"
	"github.com/rindelabs/rindestore/pkg/common"
	"go.uber.org/zap"
)

// TopicAdminOp is published by API handlers after every admin mutation.
const TopicAdminOp = "admin.op"

// AuditEvent describes one administrator operation.
type AuditEvent struct {
	Operator string
	ClientIP string
	Action   string
	Desc     string
}

func (a *Application) initAudit() {
	err := a.bus.SubscribeAsync(TopicAdminOp, a.writeAuditLog, false)
	if err != nil {
		zap.L().Error("failed to subscribe audit handler", zap.Error(err))
	}
}

func (a *Application) writeAuditLog(ev AuditEvent) {
	log := domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   ev.Operator,
		OprIp:     ev.ClientIP,
		OptAction: ev.Action,
		OptDesc:   ev.Desc,
		OptTime:   time.Now(),
	}
	if err := a.gormDB.Create(&log).Error; err != nil {
		zap.L().Error("failed to write audit log", zap.String("action", ev.Action), zap.Error(err))
	}
}

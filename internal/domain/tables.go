package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysUser{},
	&SysOprLog{},
	// Store
	&Category{},
	&Product{},
	&Favorite{},
	&Purchase{},
}

package repository

// Models returns every gorm model for schema migration.
func Models() []any {
	return []any{
		&accountModel{},
		&inspectorModel{},
		&clientModel{},
		&realtorModel{},
		&inspectionModel{},
		&documentModel{},
		&outboxModel{},
	}
}

package schema

// Store is the entity graph of the CargoDesk database.
var Store = MustGraph([]Entity{
	{Kind: Branches, Table: "branches"},
	{Kind: Countries, Table: "countries"},
	{Kind: ShipmentStatuses, Table: "shipment_statuses"},
	{Kind: Users, Table: "users", ForeignKeys: []ForeignKey{
		{Column: "branch_id", Parent: Branches, Nullable: true},
	}},
	{Kind: Shipments, Table: "shipments", ForeignKeys: []ForeignKey{
		{Column: "branch_id", Parent: Branches},
		{Column: "created_by_id", Parent: Users},
		{Column: "status_id", Parent: ShipmentStatuses},
		{Column: "origin_country_id", Parent: Countries},
		{Column: "destination_country_id", Parent: Countries},
	}},
	{Kind: ShipmentHistories, Table: "shipment_histories", ForeignKeys: []ForeignKey{
		{Column: "shipment_id", Parent: Shipments},
		{Column: "user_id", Parent: Users},
		{Column: "status_id", Parent: ShipmentStatuses},
	}},
	{Kind: TrackingEvents, Table: "tracking_events", ForeignKeys: []ForeignKey{
		{Column: "shipment_id", Parent: Shipments},
		{Column: "user_id", Parent: Users},
		{Column: "status_id", Parent: ShipmentStatuses},
	}},
	{Kind: Invoices, Table: "invoices", ForeignKeys: []ForeignKey{
		{Column: "shipment_id", Parent: Shipments},
	}},
	{Kind: Waybills, Table: "waybills", ForeignKeys: []ForeignKey{
		{Column: "shipment_id", Parent: Shipments},
	}},
	{Kind: LogEntries, Table: "log_entries", ForeignKeys: []ForeignKey{
		{Column: "user_id", Parent: Users},
		{Column: "shipment_id", Parent: Shipments, Nullable: true},
	}},
})

// RequiredCollections must be present in every snapshot, even when empty.
var RequiredCollections = []Kind{Users, Branches, Countries}

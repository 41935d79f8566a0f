package tools

// registerAll binds the closed tool catalogue.
func registerAll(r *Registry) {
	// search
	register(r, "search_items", FamilySearch,
		"Find items by item code, partial number, description or vendor, optionally filtered by status, account or location. Several equally good matches come back numbered for the user to choose from.",
		searchItems)
	register(r, "search_shipments", FamilySearch,
		"Find shipments by shipment number or partial number, optionally filtered by status and type.",
		searchShipments)
	register(r, "search_tasks", FamilySearch,
		"Find tasks by task number, partial number or title, optionally filtered by status and type.",
		searchTasks)
	register(r, "search_locations", FamilySearch,
		"Find warehouse locations by code or name.",
		searchLocations)
	register(r, "search_stocktakes", FamilySearch,
		"Find stocktakes (physical counts) by number, partial number or name.",
		searchStocktakes)
	register(r, "search_accounts", FamilySearch,
		"Find customer accounts by name or account code.",
		searchAccounts)
	register(r, "search_claims", FamilySearch,
		"Find claims by claim number, partial number or description, optionally filtered by status or account.",
		searchClaims)

	// utility
	register(r, "lookup_reference", FamilyUtility,
		"Look up a code or number when it is unclear whether it is an item, shipment, task, stocktake or claim.",
		lookupReference)
	register(r, "resolve_disambiguation", FamilyUtility,
		"Resolve the pending numbered list after the user picks: pass selections (1-based numbers), select_all, or entity_type when asked which kind of record they meant.",
		resolveDisambiguation)
	register(r, "get_current_context", FamilyUtility,
		"Return who is asking, what they have selected on screen, and any pending selection or draft.",
		getCurrentContext)

	// detail
	register(r, "get_item_details", FamilyDetail,
		"Full details for one item: account, sidemark, location, open tasks, stocktake freeze, outbound shipment, unbilled charges and recent notes.",
		getItemDetails)
	register(r, "get_shipment_details", FamilyDetail,
		"Full details for one shipment including its items, their locations and open tasks.",
		getShipmentDetails)
	register(r, "get_item_movement_history", FamilyDetail,
		"Location history of one item, newest first.",
		getItemMovementHistory)
	register(r, "get_outbound_history", FamilyDetail,
		"Outbound shipments that have contained one item.",
		getOutboundHistory)
	register(r, "get_account_summary", FamilyDetail,
		"Summary of one account: items by status, open tasks, active shipments, open claims and unbilled charges.",
		getAccountSummary)
	register(r, "get_warehouse_snapshot", FamilyDetail,
		"Tenant-wide counts of items, open tasks, active shipments, stocktakes, claims and unbilled charges.",
		getWarehouseSnapshot)
	register(r, "get_recent_activity", FamilyDetail,
		"Recent movements, new tasks and notes, newest first, optionally for one item.",
		getRecentActivity)

	// analytics
	register(r, "get_task_stats", FamilyAnalytics,
		"Task counts by type and status over a window, with completions and open totals.",
		getTaskStats)

	// single-action mutations
	register(r, "create_task", FamilyMutate,
		"Create one task for one item. Repair without a completed inspection, or repair/assembly on an item on an active outbound shipment, returns a warning instead; relay it and only retry with override_warnings=true if the user insists.",
		createTask)
	register(r, "move_item", FamilyMutate,
		"Move one item to another location. Items frozen by a stocktake or allocated cannot move.",
		moveItem)
	register(r, "add_item_note", FamilyMutate,
		"Add a note to one item.",
		addItemNote)

	// bulk, preview then execute
	register(r, "preview_bulk_tasks", FamilyBulk,
		"Preview creating tasks for several items or a whole shipment. Inspections are always one task per item. Nothing changes until execute_bulk_tasks is confirmed.",
		previewBulkTasks)
	register(r, "execute_bulk_tasks", FamilyBulk,
		"Create the tasks from the pending bulk task draft. Requires confirmed=true after the user agreed.",
		executeBulkTasks)
	register(r, "preview_bulk_move", FamilyBulk,
		"Preview moving several items or a whole shipment to one location. Nothing changes until execute_bulk_move is confirmed.",
		previewBulkMove)
	register(r, "execute_bulk_move", FamilyBulk,
		"Move the items from the pending bulk move draft. Requires confirmed=true after the user agreed.",
		executeBulkMove)
	register(r, "preview_disposal", FamilyBulk,
		"Preview disposing of items. Allocated, released, disposed and stocktake-frozen items are left out. Nothing changes until execute_disposal is confirmed.",
		previewDisposal)
	register(r, "execute_disposal", FamilyBulk,
		"Dispose of the items in the pending disposal draft. Requires confirmed=true after the user agreed.",
		executeDisposal)
	register(r, "preview_stocktake_close", FamilyBulk,
		"Check whether a stocktake can be closed and draft the close. Unresolved variances block it.",
		previewStocktakeClose)
	register(r, "close_stocktake", FamilyBulk,
		"Close the stocktake in the pending draft after re-checking variances. Requires confirmed=true after the user agreed.",
		closeStocktake)
}

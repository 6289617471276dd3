package model

// TodoList groups todo items under an owning account. Every account
// gets a default list ("Your Todo List") at sign-up.
type TodoList struct {
	UUID        string // todo_lists.uuid
	AccountUUID string // todo_lists.account_uuid
	Name        string // todo_lists.name
	CreatedAt   int64  // todo_lists.created_at

	// Items is populated only when the repository is asked to load
	// the list eagerly; it is not mapped to a column.
	Items []TodoItem
}

// TodoItem belongs to a list, not to an account directly; ownership
// is transitive through list -> account.
type TodoItem struct {
	UUID      string // todo_items.uuid
	ListUUID  string // todo_items.list_uuid
	Title     string // todo_items.title
	Completed bool   // todo_items.completed
	DueDate   *int64 // todo_items.due_date (nullable, ms since epoch)
	CreatedAt int64  // todo_items.created_at
}

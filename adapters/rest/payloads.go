package rest

type CreateTodosIn struct {
	UserKeys    []string `json:"user_keys"`
	TodoType    string   `json:"todo_type"` // current|next
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"due_date"` // ISO-8601 date or date-time
}

type MeetingTodoIn struct {
	UserKey     string `json:"user_key"`
	AssignedBy  string `json:"assigned_by"`
	TodoType    string `json:"todo_type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
}

type UpdateStatusIn struct {
	Status     string  `json:"status"`
	Reason     *string `json:"uncompleted_reason,omitempty"`
	NewDueDate *string `json:"new_due_date,omitempty"`
}

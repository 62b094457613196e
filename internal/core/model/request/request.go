package request

type CreateTodoRequest struct {
	Title string `json:"title" validate:"required,min=1"`
}

// UpdateTodoRequest keeps pointers so an absent field (nil) can be told
// apart from an explicit zero value. JSON null decodes to nil.
type UpdateTodoRequest struct {
	Title     *string `json:"title" validate:"omitnil,min=1"`
	Completed *bool   `json:"completed"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

package domain

type Todo struct {
	ID        int64  `db:"id" json:"id"`
	Title     string `db:"title" json:"title"`
	Completed bool   `db:"completed" json:"completed"`
}

// TodoPatch carries the fields of a partial update. A nil field was not
// supplied by the caller and must be left untouched.
type TodoPatch struct {
	Title     *string
	Completed *bool
}

func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil
}

// Fields lists the column names touched by the patch.
func (p TodoPatch) Fields() []string {
	fields := make([]string, 0, 2)

	if p.Title != nil {
		fields = append(fields, "title")
	}

	if p.Completed != nil {
		fields = append(fields, "completed")
	}

	return fields
}

func (p TodoPatch) ToMap() map[string]interface{} {
	values := make(map[string]interface{}, 2)

	if p.Title != nil {
		values["title"] = *p.Title
	}

	if p.Completed != nil {
		values["completed"] = *p.Completed
	}

	return values
}

package validation_test

import (
	"testing"

	. "github.com/onsi/gomega"

	"todoservice/internal/adapter/http/validation"
	"todoservice/internal/core/model/request"
	"todoservice/internal/core/model/response"
)

func TestValidate_CreateTodoRequest(t *testing.T) {
	RegisterTestingT(t)

	err := validation.Validate(request.CreateTodoRequest{})

	Expect(err).To(HaveOccurred())
	Expect(validation.FormatValidationErrors(err)).To(ConsistOf(response.ValidationError{
		Field:   "title",
		Message: "title is required",
	}))

	Expect(validation.Validate(request.CreateTodoRequest{Title: "Buy milk"})).To(Succeed())
}

func TestValidate_UpdateTodoRequest(t *testing.T) {
	RegisterTestingT(t)

	empty := ""
	title := "Walk dog"

	Expect(validation.Validate(request.UpdateTodoRequest{})).To(Succeed())
	Expect(validation.Validate(request.UpdateTodoRequest{Title: &title})).To(Succeed())

	err := validation.Validate(request.UpdateTodoRequest{Title: &empty})

	Expect(err).To(HaveOccurred())
	Expect(validation.FormatValidationErrors(err)[0].Field).To(Equal("title"))
}

func TestValidate_CreateUserRequest(t *testing.T) {
	RegisterTestingT(t)

	err := validation.Validate(request.CreateUserRequest{
		Username: "jane",
		Email:    "not-an-email",
		Password: "short",
	})

	errs := validation.FormatValidationErrors(err)

	Expect(errs).To(HaveLen(2))
	Expect(errs).To(ContainElement(response.ValidationError{
		Field:   "email",
		Message: "email must be a valid email address",
	}))
	Expect(errs).To(ContainElement(HaveField("Field", "password")))
}

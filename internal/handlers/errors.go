package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/repositories"
	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/rpc"
	"github.com/pffigueiredo/simple-todo-app-cdf7/internal/services"
)

// toRPCError はサービス層のエラーをRPCエラーに変換します。
// ストアのエラーはそのまま返し、rpc 層で INTERNAL_SERVER_ERROR として扱われます。
func toRPCError(err error) error {
	var notFound *repositories.TodoNotFoundError
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return rpc.Errorf(rpc.CodeBadRequest, "%s", err.Error())
	case errors.As(err, &notFound):
		return rpc.Errorf(rpc.CodeNotFound, "%s", notFound.Error())
	default:
		return err
	}
}

// bindError は ShouldBindJSON の失敗を BAD_REQUEST に変換します。
func bindError(err error) *rpc.Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return rpc.Errorf(rpc.CodeBadRequest, "%s", strings.Join(msgs, "; "))
	}
	return rpc.Errorf(rpc.CodeBadRequest, "Invalid request payload: %v", err)
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed on the %q rule", field, fe.Tag())
	}
}

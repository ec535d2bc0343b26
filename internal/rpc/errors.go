package rpc

import (
	"errors"
	"fmt"
	"net/http"
)

// Code はRPCエラーの種別です。
type Code string

const (
	CodeBadRequest         Code = "BAD_REQUEST"
	CodeNotFound           Code = "NOT_FOUND"
	CodeMethodNotSupported Code = "METHOD_NOT_SUPPORTED"
	CodeInternal           Code = "INTERNAL_SERVER_ERROR"
)

var httpStatus = map[Code]int{
	CodeBadRequest:         http.StatusBadRequest,
	CodeNotFound:           http.StatusNotFound,
	CodeMethodNotSupported: http.StatusMethodNotAllowed,
	CodeInternal:           http.StatusInternalServerError,
}

// Error はクライアントに返されるRPCエラーです。サーバーとクライアントの両方で使用します。
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Errorf は指定したコードの *Error を作成します。
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HTTPStatus はエラーコードに対応するHTTPステータスを返します。
func (e *Error) HTTPStatus() int {
	if s, ok := httpStatus[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// AsError は任意のエラーを *Error に変換します。
// *Error を含まないエラーはメッセージをそのまま INTERNAL_SERVER_ERROR として扱います。
func AsError(err error) *Error {
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	return &Error{Code: CodeInternal, Message: err.Error()}
}

// Package rpc は単一のエンドポイント上でプロシージャを公開する型付きRPC層です。
//
// クエリは GET /<prefix>/<name>?input=<json>、ミューテーションは POST /<prefix>/<name>
// (ボディにJSON) で呼び出します。成功時は {"result":{"data":...}}、失敗時は
// {"error":{"code":...,"message":...}} を返します。
package rpc

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// Kind はプロシージャの種類です。
type Kind int

const (
	Query Kind = iota
	Mutation
)

func (k Kind) method() string {
	if k == Query {
		return http.MethodGet
	}
	return http.MethodPost
}

// HandlerFunc はプロシージャの実装です。返り値は result.data としてエンコードされます。
type HandlerFunc func(c *gin.Context) (any, error)

// Procedure は登録されたプロシージャです。
type Procedure struct {
	Kind   Kind
	Handle HandlerFunc
}

// Response はRPCレスポンスのエンベロープです。
type Response struct {
	Result *Result `json:"result,omitempty"`
	Error  *Error  `json:"error,omitempty"`
}

// Result は成功レスポンスの中身です。
type Result struct {
	Data any `json:"data"`
}

// Router はプロシージャ名からハンドラーへのディスパッチを行います。
type Router struct {
	procedures map[string]Procedure
}

// NewRouter は空のRouterを作成します。
func NewRouter() *Router {
	return &Router{procedures: make(map[string]Procedure)}
}

// Query はクエリプロシージャを登録します。
func (r *Router) Query(name string, h HandlerFunc) {
	r.procedures[name] = Procedure{Kind: Query, Handle: h}
}

// Mutation はミューテーションプロシージャを登録します。
func (r *Router) Mutation(name string, h HandlerFunc) {
	r.procedures[name] = Procedure{Kind: Mutation, Handle: h}
}

// Procedures は登録済みのプロシージャ名をソートして返します。
func (r *Router) Procedures() []string {
	names := make([]string, 0, len(r.procedures))
	for name := range r.procedures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Mount は group 配下に /:procedure を GET と POST で登録します。
func (r *Router) Mount(group gin.IRoutes) {
	group.GET("/:procedure", r.Serve)
	group.POST("/:procedure", r.Serve)
}

// Serve は c.Param("procedure") に対応するプロシージャを実行します。
func (r *Router) Serve(c *gin.Context) {
	name := c.Param("procedure")
	p, ok := r.procedures[name]
	if !ok {
		WriteError(c, Errorf(CodeNotFound, "No procedure found on path %q", name))
		return
	}
	if c.Request.Method != p.Kind.method() {
		WriteError(c, Errorf(CodeMethodNotSupported, "Procedure %q must be called with %s", name, p.Kind.method()))
		return
	}

	data, err := p.Handle(c)
	if err != nil {
		rpcErr := AsError(err)
		if rpcErr.Code == CodeInternal {
			log.Printf("RPC %s failed: %v", name, err)
		}
		WriteError(c, rpcErr)
		return
	}
	WriteResult(c, data)
}

// WriteResult は成功レスポンスを書き込みます。
func WriteResult(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Result: &Result{Data: data}})
}

// WriteError はエラーレスポンスを書き込みます。
func WriteError(c *gin.Context, err error) {
	rpcErr := AsError(err)
	c.JSON(rpcErr.HTTPStatus(), Response{Error: rpcErr})
}

// BindInput はプロシージャの入力を dst にデコードし、binding タグで検証します。
// GET の場合は ?input= のJSON、それ以外はリクエストボディを読みます。
func BindInput(c *gin.Context, dst any) error {
	if c.Request.Method == http.MethodGet {
		raw := c.Query("input")
		if raw == "" {
			raw = "{}"
		}
		if err := json.Unmarshal([]byte(raw), dst); err != nil {
			return err
		}
		return binding.Validator.ValidateStruct(dst)
	}
	return c.ShouldBindJSON(dst)
}

package modules

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/raccoon-lang/raccoon/internal/runtime"
	"github.com/raccoon-lang/raccoon/internal/typesystem"
)

// httpModule wires stdlib net/http (spec §4.7 "std:http -> stdlib
// net/http"), grounded on the teacher's internal/evaluator/builtins_http.go
// httpGet/httpPost pair, generalized to return Futures since http
// requests are exposed as async calls (spec §4.6 async/await surface).
func httpModule() *Module {
	client := &http.Client{Timeout: 30 * time.Second}

	doRequest := func(method string, args []runtime.Value) (runtime.Value, error) {
		url, err := asStr(method, args, 1)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequest(method, string(url), nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return responseObject(resp.StatusCode, body), nil
	}

	values := map[string]runtime.Value{
		"get": nativeAsync("get", typesystem.Function{Params: []typesystem.Type{typesystem.TStr}, Return: typesystem.Future{Inner: typesystem.TAny}}, func(args []runtime.Value) (runtime.Value, error) {
			return doRequest(http.MethodGet, args)
		}),
		"delete": nativeAsync("delete", typesystem.Function{Params: []typesystem.Type{typesystem.TStr}, Return: typesystem.Future{Inner: typesystem.TAny}}, func(args []runtime.Value) (runtime.Value, error) {
			return doRequest(http.MethodDelete, args)
		}),
		"post": nativeAsync("post", typesystem.Function{Params: []typesystem.Type{typesystem.TStr, typesystem.TStr}, Return: typesystem.Future{Inner: typesystem.TAny}}, func(args []runtime.Value) (runtime.Value, error) {
			return bodyRequest(client, http.MethodPost, args)
		}),
		"put": nativeAsync("put", typesystem.Function{Params: []typesystem.Type{typesystem.TStr, typesystem.TStr}, Return: typesystem.Future{Inner: typesystem.TAny}}, func(args []runtime.Value) (runtime.Value, error) {
			return bodyRequest(client, http.MethodPut, args)
		}),
	}
	types := map[string]typesystem.Type{
		"get":    typesystem.Function{Params: []typesystem.Type{typesystem.TStr}, Return: typesystem.Future{Inner: typesystem.TAny}},
		"delete": typesystem.Function{Params: []typesystem.Type{typesystem.TStr}, Return: typesystem.Future{Inner: typesystem.TAny}},
		"post":   typesystem.Function{Params: []typesystem.Type{typesystem.TStr, typesystem.TStr}, Return: typesystem.Future{Inner: typesystem.TAny}},
		"put":    typesystem.Function{Params: []typesystem.Type{typesystem.TStr, typesystem.TStr}, Return: typesystem.Future{Inner: typesystem.TAny}},
	}
	return &Module{Name: "http", Values: values, Types: types}
}

func bodyRequest(client *http.Client, method string, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, wrongArgCount(method, 2, len(args))
	}
	url, ok1 := args[0].(runtime.Str)
	body, ok2 := args[1].(runtime.Str)
	if !ok1 || !ok2 {
		return nil, wrongArgCount(method, 2, len(args))
	}
	req, err := http.NewRequest(method, string(url), strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return responseObject(resp.StatusCode, respBody), nil
}

func responseObject(status int, body []byte) runtime.Value {
	obj := runtime.NewObject()
	obj.Properties["status"] = runtime.Int(status)
	obj.Properties["body"] = runtime.Str(body)
	return obj
}

package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vango-dev/reactive/pkg/reactive"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "runtime error",
			code:    "R001",
			wantMsg: "Cyclic dependency",
			wantCat: CategoryRuntime,
		},
		{
			name:    "config error",
			code:    "R101",
			wantMsg: "Invalid config file",
			wantCat: CategoryConfig,
		},
		{
			name:    "cli error",
			code:    "R111",
			wantMsg: "Unknown demo scenario",
			wantCat: CategoryCLI,
		},
		{
			name:    "unknown error code",
			code:    "R999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "reactive.yaml")
	if err.Message != `file "reactive.yaml" not found` {
		t.Errorf("Message = %q, want %q", err.Message, `file "reactive.yaml" not found`)
	}
	if err.Error() != `file "reactive.yaml" not found` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestError_Error(t *testing.T) {
	got := New("R005").Error()
	want := "R005: Effect run budget exceeded"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestError_Builders(t *testing.T) {
	err := New("R002").
		WithDetail("Custom detail").
		WithSuggestion("Check the input").
		WithExample("total.TryGet()").
		WithCause("boom")

	if err.Detail != "Custom detail" || err.Suggestion != "Check the input" || err.Example != "total.TryGet()" || err.Cause != "boom" {
		t.Errorf("unexpected error %+v", err)
	}
}

func TestError_Wrap(t *testing.T) {
	inner := fmt.Errorf("inner")
	outer := New("R099").Wrap(inner)

	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
	if outer.Cause != "inner" {
		t.Errorf("Cause = %q, want %q", outer.Cause, "inner")
	}
	if !stderrors.Is(outer, inner) {
		t.Error("errors.Is should see the wrapped error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil) != nil {
		t.Error("FromError(nil) should return nil")
	}

	coded := New("R101")
	if FromError(fmt.Errorf("load: %w", coded)) != coded {
		t.Error("FromError should return a coded error as-is")
	}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"cycle", &reactive.CycleError{Path: []reactive.NodeID{1, 2, 1}}, CodeCycle},
		{"compute", &reactive.ComputeError{Node: 1, Value: "boom"}, CodeComputeFailure},
		{"disposed", fmt.Errorf("%w: double#2", reactive.ErrDisposed), CodeDisposed},
		{"disposed inside compute", &reactive.ComputeError{Value: reactive.ErrDisposed}, CodeDisposed},
		{"foreign", reactive.ErrForeignNode, CodeForeignNode},
		{"storm", fmt.Errorf("%w: 5 runs", reactive.ErrEffectStorm), CodeEffectStorm},
		{"joined", stderrors.Join(reactive.ErrEffectStorm, &reactive.ComputeError{}), CodeEffectStorm},
		{"other", fmt.Errorf("other"), CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err)
			if got.Code != tt.want {
				t.Errorf("Code = %q, want %q", got.Code, tt.want)
			}
			if got.Wrapped != tt.err {
				t.Error("original error should be wrapped")
			}
		})
	}

	if got := FromError(fmt.Errorf("other"), CodeServe); got.Code != CodeServe {
		t.Errorf("Code = %q, want fallback %q", got.Code, CodeServe)
	}
}

func TestFromEngineFailure(t *testing.T) {
	rt := reactive.NewRuntime()
	var self *reactive.Computed[int]
	self = reactive.NewComputed(rt, func() int { return self.Get() }, reactive.Name("self"))

	_, err := self.TryGet()
	coded := FromError(err)
	if coded.Code != CodeCycle {
		t.Fatalf("Code = %q, want %q", coded.Code, CodeCycle)
	}
	if !strings.Contains(coded.Cause, "self#1 -> self#1") {
		t.Errorf("Cause = %q, want the cycle path", coded.Cause)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("R001").
		WithCause("reactive: cyclic dependency: a#1 -> b#2 -> a#1").
		WithExample("reactive.Untrack(rt, a.Get)")
	formatted := err.Format()

	for _, want := range []string{"ERROR R001: Cyclic dependency", "a#1 -> b#2 -> a#1", "Hint:", "Example:", "reactive.Untrack"} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format should contain %q, got:\n%s", want, formatted)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	compact := New("R003").WithCause("double#2").FormatCompact()

	want := "R003: Node disposed (double#2)"
	if compact != want {
		t.Errorf("FormatCompact() = %q, want %q", compact, want)
	}
}

func TestFormatJSON(t *testing.T) {
	json := New("R005").WithCause("10000 runs").FormatJSON()

	for _, want := range []string{`"code":"R005"`, `"category":"runtime"`, `"message":"Effect run budget exceeded"`, `"cause":"10000 runs"`} {
		if !strings.Contains(json, want) {
			t.Errorf("JSON should contain %s, got %s", want, json)
		}
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var b strings.Builder
	Fprint(&b, New("R110"))
	if !strings.Contains(b.String(), "ERROR R110: Unknown command") {
		t.Errorf("unexpected output %q", b.String())
	}

	b.Reset()
	Fprint(&b, fmt.Errorf("plain"))
	if !strings.Contains(b.String(), "ERROR: plain") {
		t.Errorf("unexpected output %q", b.String())
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("GetAllCodes() should return codes")
	}
	if codes[0] != "R001" {
		t.Errorf("codes should be sorted, first is %q", codes[0])
	}
}

func TestGetTemplate(t *testing.T) {
	template, ok := GetTemplate("R004")
	if !ok {
		t.Error("R004 should exist")
	}
	if template.Message != "Node belongs to another runtime" {
		t.Error("Template message mismatch")
	}

	if _, ok := GetTemplate("R999"); ok {
		t.Error("R999 should not exist")
	}
}

func TestRegister(t *testing.T) {
	Register("R999", ErrorTemplate{
		Category: CategoryRuntime,
		Message:  "Custom test error",
	})
	defer delete(registry, "R999")

	if err := New("R999"); err.Message != "Custom test error" {
		t.Errorf("Message = %q, want %q", err.Message, "Custom test error")
	}
}

func TestExplain(t *testing.T) {
	err, lookupErr := Explain("R002")
	if lookupErr != nil || err.Code != "R002" {
		t.Fatalf("Explain(R002) = %v, %v", err, lookupErr)
	}

	_, lookupErr = Explain("nope")
	var coded *Error
	if !stderrors.As(lookupErr, &coded) || coded.Code != CodeUnknownCode || coded.Cause != "nope" {
		t.Errorf("expected unknown code error, got %v", lookupErr)
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("short text", 100)
	if len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}

	got = wrapText("this is a longer text that should be wrapped", 20)
	if len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}

	got = wrapText("", 10)
	if len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}

func TestColorFunctions(t *testing.T) {
	EnableColors()
	if !strings.Contains(red("test"), "\033[31m") {
		t.Error("red should contain ANSI code when colors enabled")
	}

	DisableColors()
	if strings.Contains(red("test"), "\033[") {
		t.Error("red should not contain ANSI code when colors disabled")
	}
	EnableColors()
}

package typesystem

import (
	"strconv"

	"github.com/funvibe/gradual/internal/diagnostics"
	"github.com/funvibe/gradual/internal/source"
)

// DispatchResult is the outcome of resolving a call. When Errors is non-empty
// Type holds the fallback the caller should keep inferring with.
type DispatchResult struct {
	Type   Type
	Errors []*diagnostics.DiagnosticError
}

func (r DispatchResult) Ok() bool { return len(r.Errors) == 0 }

// ReportTo hands every diagnostic to rep and returns the result type.
func (r DispatchResult) ReportTo(rep diagnostics.Reporter) Type {
	diagnostics.ReportAll(rep, r.Errors)
	return r.Type
}

func failed(t Type, err *diagnostics.DiagnosticError) DispatchResult {
	return DispatchResult{Type: t, Errors: []*diagnostics.DiagnosticError{err}}
}

// DispatchCall resolves method name on recv for the given arguments.
// fullType is the receiver as the caller wrote it; it is threaded through
// unions, intersections and proxies unchanged so that diagnostics name it.
// A nil fullType means recv.
func DispatchCall(ctx Context, recv Type, name string, callLoc source.Loc, args []TypeAndOrigins, fullType Type) DispatchResult {
	mustBeType(recv, "receiver")
	if fullType == nil {
		fullType = recv
	}

	switch r := recv.(type) {
	case *ClassType:
		return dispatchOnClass(ctx, r.symbol, name, callLoc, args, fullType)
	case *OrType:
		left := DispatchCall(ctx, r.left, name, callLoc, args, fullType)
		right := DispatchCall(ctx, r.right, name, callLoc, args, fullType)
		return DispatchResult{
			Type:   Lub(ctx, left.Type, right.Type),
			Errors: append(left.Errors, right.Errors...),
		}
	case *AndType:
		// A branch that failed degrades to Dynamic, which Glb absorbs, so
		// the other branch's answer survives.
		left := DispatchCall(ctx, r.left, name, callLoc, args, fullType)
		right := DispatchCall(ctx, r.right, name, callLoc, args, fullType)
		return DispatchResult{
			Type:   Glb(ctx, left.Type, right.Type),
			Errors: append(left.Errors, right.Errors...),
		}
	case ProxyType:
		return DispatchCall(ctx, r.Underlying(), name, callLoc, args, fullType)
	case *DynamicType:
		if ctx != nil && ctx.IsStrictMode() {
			return failed(Dynamic(), diagnostics.NewError(diagnostics.ErrD004, callLoc, name))
		}
		return DispatchResult{Type: Dynamic()}
	case *BottomType:
		return DispatchResult{Type: Bottom()}
	case *NilType:
		if ref, ok := nilClass(ctx); ok {
			return dispatchOnClass(ctx, ref, name, callLoc, args, fullType)
		}
	}
	return failed(Dynamic(), diagnostics.NewError(diagnostics.ErrD001, callLoc, name, Describe(ctx, fullType)))
}

func dispatchOnClass(ctx Context, owner SymbolRef, name string, callLoc source.Loc, args []TypeAndOrigins, fullType Type) DispatchResult {
	var method *Method
	if ctx != nil {
		method, _ = ctx.LookupMethod(owner, name)
	}
	if method == nil {
		return failed(Dynamic(), diagnostics.NewError(diagnostics.ErrD001, callLoc, name, Describe(ctx, fullType)))
	}

	if n := len(args); n < method.RequiredCount() || (method.MaxCount() >= 0 && n > method.MaxCount()) {
		err := diagnostics.NewError(diagnostics.ErrD002, callLoc, name, arityString(method), n)
		for _, arg := range args {
			err = err.WithLines(arg.Explanations()...)
		}
		return failed(Dynamic(), err)
	}

	var errs []*diagnostics.DiagnosticError
	for i, arg := range args {
		param, _ := method.ParamAt(i)
		if param.Type == nil {
			continue
		}
		mustBeType(arg.Type, "argument type")
		if IsSubType(ctx, arg.Type, param.Type) {
			continue
		}
		err := diagnostics.NewError(diagnostics.ErrD003, arg.FirstOrigin(callLoc),
			i+1, name, param.Name, Describe(ctx, param.Type), Describe(ctx, arg.Type))
		errs = append(errs, err.WithLines(arg.Explanations()...))
	}
	if len(errs) > 0 {
		return DispatchResult{Type: Dynamic(), Errors: errs}
	}

	if method.Result == nil {
		return DispatchResult{Type: Dynamic()}
	}
	return DispatchResult{Type: method.Result}
}

func arityString(m *Method) string {
	min, max := m.RequiredCount(), m.MaxCount()
	switch {
	case max < 0:
		return strconv.Itoa(min) + "+"
	case min == max:
		return strconv.Itoa(min)
	default:
		return strconv.Itoa(min) + ".." + strconv.Itoa(max)
	}
}

// GetCallArgumentType returns the declared type of the i-th parameter of
// name on recv, or Dynamic when it cannot be resolved.
//
// A union receiver needs an argument acceptable to both branches (Glb). An
// intersection receiver answers with Lub, the weaker of the two requirements.
func GetCallArgumentType(ctx Context, recv Type, name string, i int) Type {
	mustBeType(recv, "receiver")

	switch r := recv.(type) {
	case *ClassType:
		return argumentTypeOnClass(ctx, r.symbol, name, i)
	case *OrType:
		return Glb(ctx, GetCallArgumentType(ctx, r.left, name, i), GetCallArgumentType(ctx, r.right, name, i))
	case *AndType:
		return Lub(ctx, GetCallArgumentType(ctx, r.left, name, i), GetCallArgumentType(ctx, r.right, name, i))
	case ProxyType:
		return GetCallArgumentType(ctx, r.Underlying(), name, i)
	case *NilType:
		if ref, ok := nilClass(ctx); ok {
			return argumentTypeOnClass(ctx, ref, name, i)
		}
	}
	return Dynamic()
}

func argumentTypeOnClass(ctx Context, owner SymbolRef, name string, i int) Type {
	if ctx == nil {
		return Dynamic()
	}
	method, ok := ctx.LookupMethod(owner, name)
	if !ok {
		return Dynamic()
	}
	param, ok := method.ParamAt(i)
	if !ok || param.Type == nil {
		return Dynamic()
	}
	return param.Type
}

package emitter

import (
	"reflect"
	"unsafe"
)

// ownerKey identifies an owner by dynamic type and address. Owners of
// zero-sized types may share an address and therefore an identity.
type ownerKey struct {
	typ reflect.Type
	ptr uintptr
}

func ownerKeyOf(owner any) (ownerKey, bool) {
	if owner == nil {
		return ownerKey{}, false
	}
	v := reflect.ValueOf(owner)
	switch v.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.Map, reflect.UnsafePointer:
		if v.IsNil() {
			return ownerKey{}, false
		}
		return ownerKey{typ: v.Type(), ptr: v.Pointer()}, true
	case reflect.Func:
		if v.IsNil() {
			return ownerKey{}, false
		}
		// Pointer would give the code address, shared by every closure of a literal
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		return ownerKey{typ: v.Type(), ptr: uintptr(*(*unsafe.Pointer)(p.UnsafePointer()))}, true
	}
	return ownerKey{}, false
}

// handlerKey is the address of the closure behind h. Two closures of one
// literal differ, and so do two evaluations of the same method value: keep
// the value passed to Register to unregister it later.
func handlerKey(h Handler) uintptr {
	if h == nil {
		return 0
	}
	return uintptr(*(*unsafe.Pointer)(unsafe.Pointer(&h)))
}

func checkEvent(op, event string) {
	if event == "" {
		invalid(op, "event type must be a non-empty string")
	}
}

func checkHandler(op string, h Handler) uintptr {
	if h == nil {
		invalid(op, "a callable argument is expected")
	}
	return handlerKey(h)
}

// checkOwner validates the optional trailing owner argument.
func checkOwner(op string, owner []any) (ownerKey, bool) {
	switch len(owner) {
	case 0:
		return ownerKey{}, false
	case 1:
		key, ok := ownerKeyOf(owner[0])
		if !ok {
			invalid(op, "owner must be a non-nil reference value")
		}
		return key, true
	}
	invalid(op, "at most one owner is accepted")
	return ownerKey{}, false
}

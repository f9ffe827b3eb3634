package uefi

// callService invokes a firmware function using the Microsoft x64 calling
// convention mandated by the UEFI specification.
func callService(fn uintptr, a1, a2, a3, a4 uintptr) Status

// callServiceFn is swapped by tests to fake firmware responses.
var callServiceFn = callService

package spawn

import (
	"os"

	"github.com/core-tools/hsu-spawn/pkg/errors"
)

// inheritancePlan is the per-spawn decision of which open files the
// child observes and where: supplied streams are duplicated onto the
// canonical positions, absent streams are connected to the null
// device, and additional handles are inherited at their existing
// descriptor/handle values. The plan is computed up front so that
// handle validity is checked before any OS state is touched.
type inheritancePlan struct {
	stdin      *os.File
	stdout     *os.File
	stderr     *os.File
	additional []*os.File
}

func buildInheritancePlan(request Request) (*inheritancePlan, error) {
	plan := &inheritancePlan{}

	var err error
	if plan.stdin, err = fileForStream(request.Stdin, "stdin"); err != nil {
		return nil, err
	}
	if plan.stdout, err = fileForStream(request.Stdout, "stdout"); err != nil {
		return nil, err
	}
	if plan.stderr, err = fileForStream(request.Stderr, "stderr"); err != nil {
		return nil, err
	}

	for i, handle := range request.AdditionalHandles {
		if _, ok := handle.Descriptor(); !ok {
			return nil, errors.NewInvalidHandleError("additional handle has no underlying descriptor", nil).WithContext("index", i)
		}
		plan.additional = append(plan.additional, handle.File())
	}

	return plan, nil
}

func fileForStream(handle *IOHandle, stream string) (*os.File, error) {
	if handle == nil {
		return nil, nil
	}
	if _, ok := handle.Descriptor(); !ok {
		return nil, errors.NewInvalidHandleError(stream+" handle has no underlying descriptor", nil)
	}
	return handle.File(), nil
}

package pipeline

import "errors"

var (
	errInvalidFiles = errors.New("pipeline: at least one rank reported invalid files before dispatch")
	errEncodeFailed = errors.New("pipeline: erasure dispatch/wait failed on at least one rank")
	errRebuildFail  = errors.New("pipeline: erasure rebuild dispatch/wait failed on at least one rank")
	errRemoveFail   = errors.New("pipeline: erasure remove dispatch/wait failed on at least one rank")
)

func errUnknownStore(name string) error {
	return errors.New("pipeline: unknown store " + name)
}

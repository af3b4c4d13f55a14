package filter

import "github.com/viant/anno/annotation/errkind"

var (
	errEmptyPackageList    = errkind.Newf(errkind.NullArgument, "", "packages")
	errEmptyPackageElement = errkind.Newf(errkind.EmptyPackageElement, "", "packages")
)

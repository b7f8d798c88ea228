package apdl2py

import (
	"path/filepath"
	"strings"
)

// apdlExtensions are the input file extensions recognized as APDL scripts.
var apdlExtensions = map[string]bool{
	".inp": true,
	".dat": true,
	".mac": true,
	".ans": true,
	".cdb": true,
}

// IsAPDLFile reports whether path looks like an APDL script by extension.
func IsAPDLFile(path string) bool {
	return apdlExtensions[strings.ToLower(filepath.Ext(path))]
}

// ResolveOutputPath determines the final output path for a converted
// script. An explicit output wins; otherwise the input path with a .py
// extension.
func ResolveOutputPath(inPath, explicit string) string {
	if explicit == "" {
		return ReplaceExt(inPath, ".py")
	}
	if filepath.IsAbs(explicit) {
		return explicit
	}
	return filepath.Join(filepath.Dir(inPath), explicit)
}

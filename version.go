package apdl2py

// VERSION is the current version of apdl2py, stamped into generated
// script headers.
const VERSION = "0.2.0"

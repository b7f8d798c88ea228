package apdl2py

import (
	"sort"
	"strings"
)

// pymapdlMethods is the known-commands whitelist: the PyMAPDL Mapdl method
// names the converter may emit as structured calls. Slash commands whose
// bare name collides with another command are exposed as slash<name>,
// star commands likewise as star<name>. Must stay sorted; findMatch
// binary-searches it.
var pymapdlMethods = []string{
	"aadd", "aatt", "accat", "acel", "adele", "adrag", "aesize", "afillt",
	"aglue", "al", "alist", "allsel", "alphad", "amesh", "antime", "antype",
	"aovlap", "aplot", "arclen", "area", "areverse", "arotat", "arscale",
	"arsym", "asba", "asbw", "asel", "askin", "asll", "aslv", "asum",
	"atran", "autots", "axlab",
	"betad", "bf", "bfa", "bfcum", "bfdele", "bfe", "bfecum", "bfedele",
	"bfelist", "bflist", "block", "bsplin", "btol", "bucopt",
	"cdread", "cdwrite", "ce", "cedele", "celist", "center", "cerig",
	"cfact", "circle", "clear", "clocal", "cm", "cmdele", "cmlist",
	"cmsel", "cnvtol", "com", "con4", "cone", "cp", "cpdele", "cpintf",
	"cplgen", "cplist", "cpmerge", "create", "crplim", "cs", "cscir",
	"csdele", "cskp", "cslist", "cswpla", "csys", "cyclic", "cylind",
	"d", "da", "dadele", "dalist", "dcgomg", "ddele", "deltim", "deriv",
	"desize", "desol", "detab", "dig", "digit", "dim", "dist", "dk",
	"dkdele", "dklist", "dl", "dldele", "dllist", "dmove", "dmprat",
	"dnsol", "dof", "dofsel", "domega", "dscale", "dset", "dsum", "dsurf",
	"dsym", "dsys", "dtran", "dump", "dval", "dynopt",
	"e", "ealive", "edele", "egen", "elem", "elist", "emodif", "emore",
	"en", "engen", "enorm", "eorient", "eplot", "eqslv", "erase", "eread",
	"eresx", "errang", "esel", "esize", "eslv", "esol", "esort", "esurf",
	"esym", "esys", "et", "etable", "etchg", "etdele", "etlist", "etype",
	"eusort", "ewrite", "exit", "expand", "expass", "extopt", "extrem",
	"f", "fatigue", "fc", "fcdele", "fclist", "fcum", "fdele", "fesurf",
	"file", "fill", "filldata", "finish", "fitem", "fk", "fkdele",
	"fklist", "flist", "flst", "form", "fplot", "freq", "fsum", "ftran",
	"ftype", "fvmesh",
	"gap", "gauge", "geom", "geometry", "get", "gp", "gpdele", "gplist",
	"gplot", "gsum",
	"harfrq", "help", "hrexp", "hropt", "hrout",
	"ic", "icdele", "iclist", "igesin", "igesout", "immed", "inquire",
	"inres", "inrtia", "int1", "intsrf", "ioptn", "irlf", "irlist",
	"k", "katt", "kbc", "kbetw", "kcenter", "kclear", "kdele", "kdist",
	"kesize", "keyopt", "keypts", "kfill", "kgen", "kl", "klist", "kmesh",
	"kmodif", "kmove", "knode", "kplot", "kpscale", "krefine", "kscale",
	"kscon", "ksel", "ksll", "ksln", "ksum", "ksymm", "ktran", "kuse",
	"kwpave", "kwplan",
	"l", "l2ang", "l2tan", "lang", "larc", "latt", "layer", "laylist",
	"layplot", "lcabs", "lcase", "lccalc", "lccat", "lcdef", "lcfact",
	"lcfile", "lclear", "lcomb", "lcoper", "lcsel", "lcsum", "lczero",
	"ldele", "ldiv", "ldrag", "ldread", "lesize", "lextnd", "lfillt",
	"lfsurf", "lgen", "lglue", "lgwrite", "line", "lines", "llist",
	"lmesh", "lnsrch", "local", "lovlap", "lplot", "lptn", "lrefine",
	"lreverse", "lrotat", "lsba", "lsbl", "lsbv", "lsbw", "lsclear",
	"lsdele", "lsel", "lsla", "lslk", "lsoper", "lsread", "lsscale",
	"lssolve", "lsum", "lswrite", "lsymm", "ltan", "ltran", "lumpm",
	"lvscale", "lwplan",
	"m", "magopt", "magsolv", "mat", "mater", "mdamp", "mdele", "mdplot",
	"midtol", "mp", "mpamod", "mpchg", "mpcopy", "mpdata", "mpdele",
	"mpdres", "mplib", "mplist", "mpplot", "mpread", "mptemp", "mptgen",
	"mptres", "mpwrite", "mshape", "mshcopy", "mshkey", "mshmid",
	"mshpattern", "msolve", "mstole", "mxpand",
	"n", "naxis", "ncnv", "ndele", "ndist", "neqit", "nforce", "ngen",
	"nkpt", "nlgeom", "nlist", "nlog", "nmodif", "nooffset", "nplot",
	"nread", "nrefine", "nrlsum", "nropt", "nrotat", "nrrang", "nscale",
	"nsel", "nsla", "nsle", "nsll", "nsmooth", "nsol", "nsort", "nstore",
	"nsubst", "nsym", "numcmp", "numexp", "nummrg", "numoff", "numstr",
	"numvar", "nusort", "nwpave", "nwplan", "nwrite",
	"omega", "outopt", "outpr", "outres",
	"paget", "paput", "parres", "parsav", "path", "pcalc", "pcirc",
	"pcross", "pdef", "pdot", "pfact", "physics", "pivcheck", "plcplx",
	"pldisp", "plesol", "pletab", "plls", "plnsol", "plpagm", "plpath",
	"plsect", "pltime", "plvar", "plvect", "pmap", "point", "poly",
	"post1", "post26", "powerh", "ppath", "prange", "prcplx", "pred",
	"prenergy", "prep7", "prerr", "presol", "pretab", "prism", "priter",
	"prnld", "prnsol", "prod", "prpath", "prrfor", "prrsol", "prsect",
	"prtime", "prvar", "prvect", "psdcom", "psdfrq", "psdgraph",
	"psdres", "psdspl", "psdunit", "psdval", "psdwav", "psel", "ptr",
	"ptxy", "pvect",
	"qdval", "quad", "quot",
	"r", "race", "rappnd", "rbe3", "rcon", "rdele", "realvar", "rect",
	"resume", "rexport", "rforce", "rigid", "rimport", "rlist", "rmodif",
	"rmore", "rock", "rpoly", "rpr4", "rprism", "rpsd", "rsys",
	"sbclist", "sbctran", "sdelete", "se", "secdata", "secjoint",
	"seclib", "seclock", "secmodif", "secnum", "secoffset", "secplot",
	"secread", "sectinqr", "sectype", "secwrite", "sed", "sedlist",
	"seexp", "selist", "selm", "senergy", "seopt", "sesymm", "set",
	"setfgap", "setran", "sexp", "sf", "sfa", "sfact", "sfadele",
	"sfalist", "sfbeam", "sfcalc", "sfcum", "sfdele", "sfe", "sfedele",
	"sfelist", "sffun", "sfgrad", "sflist", "sfscale", "sftran", "shell",
	"show", "shpp", "slashclog", "slashdelete", "slashexpand",
	"slashfdele", "slashlarc", "slashline", "slashmap", "slashreset",
	"slashsolu", "slashstatus", "slashtype", "slist", "small", "smax",
	"smbody", "smcons", "smfor", "smin", "smrtsize", "smsurf", "smult",
	"solu", "solve", "source", "space", "spcnod", "spctemp", "spdamp",
	"spfreq", "sph4", "sph5", "sphere", "spline", "spopt", "spread",
	"spunit", "spval", "srss", "sstate", "sstif", "stardel", "starlist",
	"starprint", "starset", "starstatus", "starvget", "starvput", "stat",
	"stef", "store", "subopt", "subset", "sucalc", "sucr", "sudel",
	"sueval", "suget", "sumap", "sumtype", "supl", "supr", "suresu",
	"susave", "susel", "suvect", "sv", "svtyp", "swadd", "swdel",
	"swgen", "swlist", "synchro",
	"tallow", "tb", "tbcopy", "tbdata", "tbdele", "tbeo", "tbfield",
	"tbft", "tblist", "tbmodif", "tbplot", "tbpt", "tbtemp", "tchg",
	"thexpand", "thopt", "time", "timerange", "timint", "timp", "tintp",
	"title", "toffst", "torus", "tran", "trans", "transfer", "tref",
	"trnopt", "trpdel", "trplis", "trpoin", "tshap", "tsres", "tunif",
	"tvar", "type",
	"uimp", "undelete", "undo", "upcoord", "upgeom", "use", "usrcal",
	"v", "va", "vadd", "vardel", "varnam", "vatt", "vclear", "vcross",
	"vddam", "vdele", "vdot", "vdrag", "vext", "vfopt", "vfquery",
	"vget", "vglue", "view", "vimp", "vinv", "vlist", "vlscale", "vmesh",
	"voffst", "volumes", "vovlap", "vplot", "vptn", "vput", "vrotat",
	"vsba", "vsbv", "vsbw", "vscale", "vsel", "vsla", "vsum", "vsweep",
	"vsymm", "vtran", "vtype",
	"wpave", "wpcsys", "wplane", "wpoffs", "wprota", "wpstyl", "wrfull",
	"write",
	"xvar",
}

// forcedMapping handles commands whose natural short name is shadowed by
// another method (SECT would otherwise resolve to sectinqr).
var forcedMapping = map[string]string{
	"SECT": "sectype",
}

// commandsToNotBeConverted are always emitted as raw run calls because the
// structured method's default behavior diverges from the command's.
var commandsToNotBeConverted = map[string]bool{
	"CMPL": true, // CMPLOT
}

// commandsWithEmptyArgs use "--" positional placeholders in generated
// decks; a call that still carries an empty argument pair must stay raw so
// argument order is preserved.
var commandsWithEmptyArgs = map[string]bool{
	"/CMA": true, // /CMAP
	"/NER": true, // /NERR
	"/PBF": true, // /PBF
	"/PMO": true, // /PMORE
	"ADD":  true,
	"ANTY": true, // ANTYPE
	"ASBL": true,
	"ATAN": true,
	"BCSO": true, // BCSOPTION
	"CDRE": true, // CDREAD
	"CLOG": true,
	"CONJ": true, // CONJUG
	"CORI": true, // CORIOLIS
	"DERI": true, // DERIV
	"DSPO": true, // DSPOPTION
	"ENER": true, // ENERSOL
	"ENSY": true, // ENSYM
	"EQSL": true, // EQSLV
	"ESYM": true,
	"EXP":  true,
	"EXPA": true, // EXPAND
	"FCLI": true, // FCLIST
	"FILE": true, // FILEAUX2
	"FLUR": true, // FLUREAD
	"GMAT": true, // GMATRIX
	"IMAG": true, // IMAGIN
	"INT1": true,
	"LARG": true, // LARGE
	"LATT": true,
	"MAP":  true,
	"MORP": true, // MORPH
	"MPCO": true, // MPCOPY
	"NLOG": true,
	"PLMA": true, // PLMAP
	"PRED": true,
	"PROD": true,
	"QRDO": true, // QRDOPT
	"QUOT": true,
	"RACE": true,
	"RDEC": true,
	"REAL": true, // REALVAR
	"REME": true, // REMESH
	"RPSD": true,
	"SECR": true, // SECREAD
	"SECW": true, // SECWRITE
	"SESY": true, // SESYMM
	"SETF": true, // SETFGAP
	"SETR": true, // SETRAN
	"SMAL": true, // SMALL
	"SNOP": true, // SNOPTION
	"SQRT": true,
	"SURE": true, // SURESU
	"THOP": true, // THOPT
	"TINT": true, // TINTP
	"XFDA": true, // XFDATA
}

// blockCommands open a raw multi-line data block terminated by a sentinel
// line ("-1" or "END PREAD").
var blockCommands = map[string]string{
	"NBLO": "NBLOCK",
	"EBLO": "EBLOCK",
	"BFBL": "BFBLOCK",
	"BFEB": "BFEBLOCK",
	"PREA": "PREAD",
	"SFEB": "SFEBLOCK",
}

// enumBlockCommands open a raw data block whose length is counted from a
// field in the header line.
var enumBlockCommands = map[string]string{
	"CMBL": "CMBLOCK",
}

// nonInteractiveCommands must run inside a non_interactive context block.
var nonInteractiveCommands = map[string]bool{
	"*VWR": true, // *VWRITE
	"*VRE": true, // *VREAD
}

// validCommandsShort holds the abbreviated method-name forms used for
// membership checks: slash methods keep 8 characters, star methods 7,
// everything else 4.
var validCommandsShort = map[string]bool{}

func init() {
	for _, m := range pymapdlMethods {
		switch {
		case strings.HasPrefix(m, "slash"):
			validCommandsShort[short(m, 8)] = true
		case strings.HasPrefix(m, "star"):
			validCommandsShort[short(m, 7)] = true
		default:
			validCommandsShort[short(m, 4)] = true
		}
	}
	for p := range blockCommands {
		nonInteractiveCommands[p] = true
	}
	for p := range enumBlockCommands {
		nonInteractiveCommands[p] = true
	}
}

func short(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// isMethod reports whether name is exactly a known PyMAPDL method.
func isMethod(name string) bool {
	i := sort.SearchStrings(pymapdlMethods, name)
	return i < len(pymapdlMethods) && pymapdlMethods[i] == name
}

// findMatch returns the first method name starting with cmd, or "" when
// no method matches.
func findMatch(cmd string) string {
	i := sort.SearchStrings(pymapdlMethods, cmd)
	if i < len(pymapdlMethods) && strings.HasPrefix(pymapdlMethods[i], cmd) {
		return pymapdlMethods[i]
	}
	return ""
}

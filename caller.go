package bpflog

import (
	"runtime"
	"strings"
)

const unknownModule = "unknown"

type callsite struct {
	module string
	file   string
	line   uint32
}

func callerSite(skip int) callsite {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return callsite{module: unknownModule}
	}
	return callsite{module: moduleForPC(pc), file: file, line: uint32(line)}
}

func moduleForPC(pc uintptr) string {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return unknownModule
	}
	return packagePath(fn.Name())
}

// packagePath trims the function part off a fully qualified function name,
// e.g. "pkt.systems/bpflog/transport.(*StreamSender).Send" becomes
// "pkt.systems/bpflog/transport".
func packagePath(name string) string {
	if name == "" {
		return unknownModule
	}
	slash := strings.LastIndexByte(name, '/')
	if dot := strings.IndexByte(name[slash+1:], '.'); dot >= 0 {
		name = name[:slash+1+dot]
	}
	if name == "" {
		return unknownModule
	}
	return name
}

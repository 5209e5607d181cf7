//go:build windows

// Package console detects how the program was started.
package console

import (
	"log/slog"
	"os"
	"slices"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procGetConsoleWindow = kernel32.NewProc("GetConsoleWindow")
)

var shells = []string{
	"cmd.exe",
	"powershell.exe",
	"pwsh.exe",
	"wt.exe",
	"conhost.exe",
	"windowsterminal.exe",
	"bash.exe",
}

// StartedFromExplorer reports whether the program was launched by
// double-clicking it, in which case its console closes as soon as it exits.
func StartedFromExplorer() bool {
	hwnd, _, _ := procGetConsoleWindow.Call()
	parent := strings.ToLower(parentExe())
	slog.Debug("Parent process", "name", parent, "hasConsole", hwnd != 0)

	if hwnd == 0 {
		return true
	}
	if slices.Contains(shells, parent) {
		return false
	}
	return parent == "explorer.exe"
}

// parentExe returns the executable name of the parent process, or "" when
// it cannot be determined.
func parentExe() string {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(snapshot)

	type proc struct {
		parent uint32
		exe    string
	}
	procs := map[uint32]proc{}

	var pe windows.ProcessEntry32
	pe.Size = uint32(unsafe.Sizeof(pe))
	for err = windows.Process32First(snapshot, &pe); err == nil; err = windows.Process32Next(snapshot, &pe) {
		procs[pe.ProcessID] = proc{parent: pe.ParentProcessID, exe: windows.UTF16ToString(pe.ExeFile[:])}
	}

	self, ok := procs[uint32(os.Getpid())]
	if !ok || self.parent == 0 {
		return ""
	}
	return procs[self.parent].exe
}

package main

import (
	"testing"
)

func TestParseFlagsDefaults(t *testing.T) {
	t.Parallel()

	f, args, err := parseFlags([]string{"contract.txt"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if len(args) != 1 || args[0] != "contract.txt" {
		t.Errorf("args = %q", args)
	}
	if f.margin != marginSentinel {
		t.Errorf("margin = %v, want sentinel", f.margin)
	}
	if f.workers != 0 || f.quiet || f.verbose || f.noPageNumbers {
		t.Errorf("flags = %+v, want zero defaults", f)
	}
}

func TestParseFlagsAll(t *testing.T) {
	t.Parallel()

	f, args, err := parseFlags([]string{
		"-c", "defaults",
		"-o", "out",
		"-w", "4",
		"-q",
		"--doc-type", "Lease Agreement",
		"-p", "legal",
		"--font-size", "11",
		"--line-spacing", "double",
		"--margin", "0",
		"--number-position", "bottom-right",
		"--number-format", "roman",
		"--number-prefix", "Page ",
		"--no-page-numbers",
		"--audit",
		"--audit-db", "ledger.db",
		"--audit-recent", "5",
		"a.txt", "b.txt",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	if f.config != "defaults" || f.output != "out" || f.workers != 4 || !f.quiet {
		t.Errorf("common flags = %+v", f)
	}
	if f.docType != "Lease Agreement" || f.pageSize != "legal" || f.fontSize != 11 {
		t.Errorf("document flags = %+v", f)
	}
	if f.lineSpacing != "double" {
		t.Errorf("lineSpacing = %q", f.lineSpacing)
	}
	if f.margin != 0 {
		t.Errorf("margin = %v, want 0 (explicitly set)", f.margin)
	}
	if f.numberPosition != "bottom-right" || f.numberFormat != "roman" || f.numberPrefix != "Page " {
		t.Errorf("numbering flags = %+v", f)
	}
	if !f.noPageNumbers {
		t.Error("noPageNumbers = false")
	}
	if !f.audit || f.auditDB != "ledger.db" || f.auditRecent != 5 {
		t.Errorf("audit flags = %v %q %d", f.audit, f.auditDB, f.auditRecent)
	}
	if len(args) != 2 {
		t.Errorf("args = %q", args)
	}
}

func TestParseFlagsUnknown(t *testing.T) {
	t.Parallel()

	if _, _, err := parseFlags([]string{"--bogus"}); err == nil {
		t.Fatal("parseFlags accepted unknown flag")
	}
}

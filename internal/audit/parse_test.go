package audit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Verdict
	}{
		{
			name: "nothing to do",
			text: "ISSUES_FOUND: NO\nCONTINUE: NO\nINSTRUCTIONS_FOR_CLAUDE: N/A",
			want: Verdict{},
		},
		{
			name: "instructions block",
			text: "ISSUES_FOUND: YES\nCONTINUE: YES\n\nINSTRUCTIONS_FOR_CLAUDE:\n1. Add error handling to Load\n   - wrap the error\n2. Fix the bug in line 12\n",
			want: Verdict{
				IssuesFound:  true,
				Continue:     true,
				Instructions: "1. Add error handling to Load\n   - wrap the error\n2. Fix the bug in line 12",
			},
		},
		{
			name: "instructions on marker line",
			text: "ISSUES_FOUND: YES\nCONTINUE: YES\nINSTRUCTIONS_FOR_CLAUDE: Remove dead code\nin util.go",
			want: Verdict{IssuesFound: true, Continue: true, Instructions: "Remove dead code\nin util.go"},
		},
		{
			name: "issues but stop",
			text: "ISSUES_FOUND: YES\nCONTINUE: NO\nINSTRUCTIONS_FOR_CLAUDE:\nN/A\n",
			want: Verdict{IssuesFound: true},
		},
		{
			name: "lowercase and decorated values",
			text: "  ISSUES_FOUND: yes (minor)\n  CONTINUE: Yes.\nINSTRUCTIONS_FOR_CLAUDE:\n  n/a\n  Rename foo\n",
			want: Verdict{IssuesFound: true, Continue: true, Instructions: "Rename foo"},
		},
		{
			name: "later marker ends instructions",
			text: "INSTRUCTIONS_FOR_CLAUDE:\nDo X\nCONTINUE: YES\nISSUES_FOUND: YES\n",
			want: Verdict{IssuesFound: true, Continue: true, Instructions: "Do X"},
		},
		{
			name: "free text",
			text: "The code looks fine to me.",
			want: Verdict{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseResponse(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseResponse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVerdict_Actionable(t *testing.T) {
	if !(Verdict{IssuesFound: true, Continue: true, Instructions: "x"}).Actionable() {
		t.Error("expected actionable")
	}
	if (Verdict{IssuesFound: true, Continue: true}).Actionable() {
		t.Error("no instructions should not be actionable")
	}
}

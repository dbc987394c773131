package detect

import "testing"

func TestSniff(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Format
	}{
		{"junit testsuites", `<?xml version="1.0" encoding="utf-8"?><testsuites><testsuite name="pytest">`, JUnit},
		{"junit bare testsuite", "\n  <testsuite name=\"go\" tests=\"3\">", JUnit},
		{"cobertura with doctype", `<?xml version="1.0" ?>
<!DOCTYPE coverage SYSTEM "http://cobertura.sourceforge.net/xml/coverage-04.dtd">
<!-- Generated by coverage.py -->
<coverage version="7.4.1" line-rate="0.75">`, Cobertura},
		{"junit with byte order mark", "\xEF\xBB\xBF<?xml version=\"1.0\"?>\n<testsuites>", JUnit},
		{"cobertura with byte order mark", "\xEF\xBB\xBF<coverage line-rate=\"0.5\">", Cobertura},
		{"byte order mark only", "\xEF\xBB\xBF", Unknown},
		{"other xml", `<project><modelVersion>4.0.0</modelVersion></project>`, Unknown},
		{"json", `{"version":"2.1.0","runs":[]}`, Unknown},
		{"empty", ``, Unknown},
		{"whitespace only", "  \n\t", Unknown},
		{"truncated prolog", `<?xml version=`, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sniff([]byte(tt.input))
			if got != tt.want {
				t.Errorf("Sniff() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatString(t *testing.T) {
	if JUnit.String() != "junit" || Cobertura.String() != "cobertura" || Unknown.String() != "unknown" {
		t.Error("unexpected format names")
	}
}

package report

import "testing"

func TestColumnFormat(t *testing.T) {
	tests := []struct {
		name string
		col  Column
		val  Value
		want string
	}{
		{"text", Column{Kind: KindText}, Text("Urgencias"), "Urgencias"},
		{"integer", Column{Kind: KindInteger}, Int(42), "42"},
		{"decimal two places", Column{Kind: KindDecimal, Precision: 2}, Float(58.333333), "58.33"},
		{"decimal four places", Column{Kind: KindDecimal, Precision: 4}, Float(0.0909), "0.0909"},
		{"decimal rounds", Column{Kind: KindDecimal, Precision: 1}, Float(89.95), "90.0"},
		{"unset decimal is empty", Column{Kind: KindDecimal, Precision: 2}, Value{}, ""},
		{"unset text is empty", Column{Kind: KindText}, Value{}, ""},
		{"integer zero is emitted", Column{Kind: KindInteger}, Int(0), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.col.Format(tt.val); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReportSectionLookup(t *testing.T) {
	r := &Report{Sections: []Section{{ID: "estandares"}, {ID: "resumen"}}}

	if s := r.Section("resumen"); s == nil || s.ID != "resumen" {
		t.Fatalf("Section(resumen) = %v", s)
	}
	if s := r.Section("missing"); s != nil {
		t.Fatalf("Section(missing) = %v, want nil", s)
	}
}

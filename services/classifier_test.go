package services

import (
	"testing"

	"sipeta/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		category string
		want     models.BusinessGroup
	}{
		{"Mie Ayam", models.GroupNoodles},
		{"MIE GORENG", models.GroupNoodles},
		{"Warung Bakmie Jawa", models.GroupNoodles},
		{"bakso malang", models.GroupNoodles},
		{"AYAM BAKAR", models.GroupGrilled},
		{"Pecel Lele", models.GroupGrilled},
		{"Sate Ayam", models.GroupGrilled},
		{"Bebek Goreng", models.GroupGrilled},
		{"Nasi Goreng", models.GroupRice},
		{"Rumah Makan Padang", models.GroupRice},
		{"Soto Betawi", models.GroupRice},
		{"Dimsum", models.GroupSnacks},
		{"Roti Bakar", models.GroupSnacks},
		{"Kue Basah", models.GroupSnacks},
		{"Snack Kiloan", models.GroupSnacks},
		{"Kopi", models.GroupOther},
		{"", models.GroupOther},
		{"   ", models.GroupOther},
	}

	for _, tt := range tests {
		if got := Classify(tt.category); got != tt.want {
			t.Errorf("Classify(%q) = %q; want %q", tt.category, got, tt.want)
		}
	}
}

func TestClassifyMieAlwaysNoodles(t *testing.T) {
	inputs := []string{"mie", "MIE", "Mie Ayam Bakso", "nasi mie", "sate mie", "xxMiExx", "Roti Mie"}
	for _, in := range inputs {
		if got := Classify(in); got != models.GroupNoodles {
			t.Errorf("Classify(%q) = %q; want %q", in, got, models.GroupNoodles)
		}
	}
}

func TestClassifyPrecedence(t *testing.T) {
	// "nasi ayam" hits rule 2 before rule 3; "soto kue" hits rule 3 before rule 4.
	if got := Classify("Nasi Ayam"); got != models.GroupGrilled {
		t.Errorf("Classify(Nasi Ayam) = %q; want %q", got, models.GroupGrilled)
	}
	if got := Classify("Soto Kue"); got != models.GroupRice {
		t.Errorf("Classify(Soto Kue) = %q; want %q", got, models.GroupRice)
	}
}

func TestClassifyValue(t *testing.T) {
	tests := []struct {
		in   any
		want models.BusinessGroup
	}{
		{nil, models.GroupOther},
		{42, models.GroupOther},
		{3.5, models.GroupOther},
		{"Bakso", models.GroupNoodles},
		{[]string{"sate"}, models.GroupGrilled},
	}
	for _, tt := range tests {
		if got := ClassifyValue(tt.in); got != tt.want {
			t.Errorf("ClassifyValue(%v) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestEveryRuleMapsToKnownGroup(t *testing.T) {
	for _, r := range groupRules {
		if r.group.Rank() >= len(models.BusinessGroups) {
			t.Errorf("rule group %q not in models.BusinessGroups", r.group)
		}
	}
}

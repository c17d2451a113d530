package permissions

import "testing"

func TestSanitizeGroupName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase passthrough", "departments", "departments"},
		{"uppercase folded", "Departments", "departments"},
		{"injection characters stripped", "departments}) DETACH DELETE r //", "departmentsdetachdeleter"},
		{"underscores kept", "app_specific", "app_specific"},
		{"digits kept", "group2", "group2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeGroupName(tt.input); got != tt.want {
				t.Errorf("sanitizeGroupName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCollectionLabels(t *testing.T) {
	for _, collection := range []string{CollectionRecords, CollectionFiles, CollectionMails, CollectionUsers} {
		if _, ok := collectionLabels[collection]; !ok {
			t.Errorf("collection %q has no label mapping", collection)
		}
	}
}

package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictionary_LookupIsCaseInsensitive(t *testing.T) {
	d := DefaultDictionary()

	tests := []struct {
		raw  string
		want string
	}{
		{"react", "React"},
		{"ReactJS", "React"},
		{"react.js", "React"},
		{"NODEJS", "Node.js"},
		{"golang", "Go"},
		{"k8s", "Kubernetes"},
		{"postgres", "PostgreSQL"},
		{"Amazon  Web   Services", "AWS"},
		{"c++", "C++"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := d.Lookup(tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDictionary_LookupUnknown(t *testing.T) {
	_, ok := DefaultDictionary().Lookup("underwater basket weaving")
	assert.False(t, ok)

	_, ok = DefaultDictionary().Lookup("   ")
	assert.False(t, ok)
}

func TestDictionary_Category(t *testing.T) {
	d := DefaultDictionary()
	assert.Equal(t, CategoryLanguage, d.Category("Go"))
	assert.Equal(t, CategoryDatabase, d.Category("PostgreSQL"))
	assert.Equal(t, CategoryOther, d.Category("Cobol"))
}

func TestDictionary_WithDoesNotMutateReceiver(t *testing.T) {
	base := NewDictionary(Entry{Canonical: "Go", Variants: []string{"golang"}})
	extended := base.With(Entry{Canonical: "gRPC", Variants: []string{"grpc-go"}, Category: CategoryBackend})

	assert.False(t, base.Contains("grpc"))
	assert.True(t, extended.Contains("grpc"))
	assert.True(t, extended.Contains("grpc-go"))
	assert.True(t, extended.Contains("golang"))
	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, extended.Len())
	assert.Equal(t, []string{"Go", "gRPC"}, extended.Canonicals())
}

func TestDictionary_FormsLongestFirst(t *testing.T) {
	d := NewDictionary(Entry{Canonical: "Java"}, Entry{Canonical: "JavaScript"})
	forms := d.Forms()
	require.Len(t, forms, 2)
	assert.Equal(t, "javascript", forms[0])
	assert.Equal(t, "java", forms[1])
}

func TestNormalizeSkillName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"golang", "Go"},
		{"  reactjs ", "React"},
		{"vue.js", "Vue.js"},
		{"python", "Python"},
		{"terraform", "Terraform"},
		{"gRPC", "gRPC"},
		{"AWS", "AWS"},
		{"event sourcing", "Event sourcing"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSkillName(tt.input))
		})
	}
}

func TestNormalizeSkillName_Idempotent(t *testing.T) {
	inputs := []string{"golang", "node.js", "python", "gRPC", "event sourcing", "K8S", "postgres", "c#"}
	for _, in := range inputs {
		once := NormalizeSkillName(in)
		assert.Equal(t, once, NormalizeSkillName(once), "input %q", in)
	}

	for _, canonical := range DefaultDictionary().Canonicals() {
		assert.Equal(t, canonical, NormalizeSkillName(canonical))
	}
}

func TestNormalizeList_Deduplicates(t *testing.T) {
	got := DefaultDictionary().NormalizeList([]string{"reactjs", "React", "", "golang", "go", "Python"})
	assert.Equal(t, []string{"React", "Go", "Python"}, got)
}

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseParents(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		list string
		want []Edge
	}{
		{
			name: "superclass call and interface",
			list: "ViewModel(), Refreshable",
			want: []Edge{
				{ParentName: "ViewModel", Kind: "extends"},
				{ParentName: "Refreshable", Kind: "implements"},
			},
		},
		{
			name: "generic arguments stripped and not split",
			list: "Comparable<Pair<Int, String>>, Serializable",
			want: []Edge{
				{ParentName: "Comparable", Kind: "implements"},
				{ParentName: "Serializable", Kind: "implements"},
			},
		},
		{
			name: "constructor arguments with commas",
			list: "Base(1, 2), Listener",
			want: []Edge{
				{ParentName: "Base", Kind: "extends"},
				{ParentName: "Listener", Kind: "implements"},
			},
		},
		{
			name: "delegation keeps only the supertype",
			list: "Logger by defaultLogger",
			want: []Edge{{ParentName: "Logger", Kind: "implements"}},
		},
		{
			name: "qualified names survive",
			list: "androidx.lifecycle.ViewModel()",
			want: []Edge{{ParentName: "androidx.lifecycle.ViewModel", Kind: "extends"}},
		},
		{
			name: "non-identifier entries dropped",
			list: "(Int) -> Unit, Listener",
			want: []Edge{{ParentName: "Listener", Kind: "implements"}},
		},
		{
			name: "function type inside generics",
			list: "Function1<(Int) -> Unit, String>, Base()",
			want: []Edge{
				{ParentName: "Function1", Kind: "implements"},
				{ParentName: "Base", Kind: "extends"},
			},
		},
		{name: "empty", list: "", want: nil},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, parseParents(tt.list))
		})
	}
}

func TestSupertypeList(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		rest string
		want string
	}{
		{
			name: "plain list",
			rest: " : ViewModel(), Refreshable {",
			want: " ViewModel(), Refreshable ",
		},
		{
			name: "colon inside constructor params ignored",
			rest: "(val name: String, val retries: Int) {",
			want: "",
		},
		{
			name: "constructor params then supertypes",
			rest: "(private val repo: Repo) : ViewModel() {",
			want: " ViewModel() ",
		},
		{
			name: "where clause trimmed",
			rest: "<T> : Base<T> where T : Comparable {",
			want: " Base<T>",
		},
		{
			name: "no supertypes",
			rest: " {",
			want: "",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, supertypeList(tt.rest))
		})
	}
}

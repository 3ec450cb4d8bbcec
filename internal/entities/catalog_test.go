package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		raw  string
		want Format
	}{
		{"Hardcover", FormatHardcover},
		{"hardback", FormatHardcover},
		{"Paperback", FormatPaperback},
		{"Trade Paperback", FormatPaperback},
		{"Mass Market Paperback", FormatMassMarket},
		{"mass_market", FormatMassMarket},
		{"E-book", FormatEbook},
		{"Electronic resource", FormatEbook},
		{"Map", FormatMap},
		{"chapbook", FormatChapbook},
		{"Audio CD", FormatUnknown},
		{"", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFormat(tt.raw))
		})
	}
}

func TestRole(t *testing.T) {
	assert.Equal(t, "Translator", RoleTranslator.Label())
	assert.True(t, RoleAnnotator.Valid())
	assert.False(t, Role("narrator").Valid())
}

func TestBook_PersonsByRole(t *testing.T) {
	book := Book{
		Credits: []Credit{
			{Role: RoleAuthor, Order: 2, Person: Person{Name: "Second"}},
			{Role: RoleTranslator, Order: 1, Person: Person{Name: "Translator"}},
			{Role: RoleAuthor, Order: 1, Person: Person{Name: "First"}},
		},
	}

	authors := book.PersonsByRole(RoleAuthor)
	if assert.Len(t, authors, 2) {
		assert.Equal(t, "First", authors[0].Name)
		assert.Equal(t, "Second", authors[1].Name)
	}
	assert.Empty(t, book.PersonsByRole(RoleEditor))

	primary := book.PrimaryAuthor()
	if assert.NotNil(t, primary) {
		assert.Equal(t, "First", primary.Name)
	}
	assert.Nil(t, (&Book{}).PrimaryAuthor())
}

func TestTag_Classifier(t *testing.T) {
	ddc := Tag{Value: "ddc:813.54"}
	assert.True(t, ddc.IsClassifier())
	assert.Equal(t, "ddc", ddc.System())
	assert.Equal(t, "813.54", ddc.Code())

	fast := Tag{Value: "fast:1423832;Science fiction"}
	assert.Equal(t, "fast", fast.System())
	assert.Equal(t, "1423832;Science fiction", fast.Code())

	novel := Tag{Value: "novel"}
	assert.False(t, novel.IsClassifier())
	assert.Equal(t, "", novel.System())
	assert.Equal(t, "novel", novel.Code())

	book := Book{Tags: []Tag{ddc, novel, fast}}
	assert.Equal(t, []Tag{novel}, book.PlainTags())
	assert.Equal(t, []Tag{ddc, fast}, book.ClassifierTags())
}

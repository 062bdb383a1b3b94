package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestFirstText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div id="title"> Bulbasaur <span class="pokemon-number">#0001</span></div>`,
	))
	require.NoError(t, err)

	require.Equal(t, " Bulbasaur ", FirstText(doc.Find("#title")))
}

func TestClean(t *testing.T) {
	require.Equal(t, "Mega Venusaur", Clean("  Mega \n\n  Venusaur\n"))
	require.Equal(t, "", Clean(" \t\n"))
}

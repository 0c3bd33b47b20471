package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXML_LayoutClassUsages(t *testing.T) {
	t.Parallel()
	src := `<?xml version="1.0" encoding="utf-8"?>
<androidx.constraintlayout.widget.ConstraintLayout
    xmlns:android="http://schemas.android.com/apk/res/android">
    <com.app.widget.ChartView
        android:id="@+id/chart"
        android:background="@drawable/chart_bg" />
    <fragment
        android:name="com.app.home.HomeFragment" />
</androidx.constraintlayout.widget.ConstraintLayout>
`
	res, err := xmlExtractor{}.Extract("/repo/app/res/layout/home.xml", []byte(src))
	require.NoError(t, err)

	classes := map[string]bool{}
	for _, u := range res.XMLUsages {
		classes[u.ClassName] = true
	}
	assert.True(t, classes["androidx.constraintlayout.widget.ConstraintLayout"])
	assert.True(t, classes["com.app.widget.ChartView"])
	assert.True(t, classes["com.app.home.HomeFragment"], "android:name attribute counts")

	require.Len(t, res.ResourceUsages, 1)
	assert.Equal(t, ResourceUsage{ResType: "drawable", Name: "chart_bg", Line: 6}, res.ResourceUsages[0])
	assert.Empty(t, res.Resources, "layout files declare no resources")
}

func TestXML_ValuesDeclarations(t *testing.T) {
	t.Parallel()
	src := `<resources>
    <string name="app_name">Demo</string>
    <color name="accent">#FF0000</color>
    <dimen name="margin_default">16dp</dimen>
</resources>
`
	res, err := xmlExtractor{}.Extract("/repo/app/res/values/strings.xml", []byte(src))
	require.NoError(t, err)

	require.Len(t, res.Resources, 3)
	assert.Equal(t, Resource{ResType: "string", Name: "app_name"}, res.Resources[0])
	assert.Equal(t, Resource{ResType: "color", Name: "accent"}, res.Resources[1])
	assert.Equal(t, Resource{ResType: "dimen", Name: "margin_default"}, res.Resources[2])
}

func TestXML_DeclarationsOnlyUnderValues(t *testing.T) {
	t.Parallel()
	src := `<resources><string name="app_name">Demo</string></resources>`

	res, err := xmlExtractor{}.Extract("/repo/app/res/layout/fake.xml", []byte(src))
	require.NoError(t, err)
	assert.Empty(t, res.Resources)
}

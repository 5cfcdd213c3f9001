package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanDirName(t *testing.T) {
	assert.Equal(t, "a_b_c", CleanDirName(" a/b:c "))
	assert.Equal(t, "plain", CleanDirName("plain"))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "ch1.xhtml", BaseName("OEBPS/Text/ch1.xhtml"))
	assert.Equal(t, "a_b.css", BaseName("a?b.css"))
}

func TestExt(t *testing.T) {
	assert.Equal(t, "jpg", Ext("OEBPS/Images/x.jpg"))
	assert.Equal(t, "", Ext("OEBPS/Images/noext"))
}

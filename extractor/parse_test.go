package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "39000", digitsOnly("39,000원"))
	assert.Equal(t, "1290000", digitsOnly("₩1,290,000"))
	assert.Equal(t, "", digitsOnly("품절"))
}

func TestEnsureHTTPS(t *testing.T) {
	assert.Equal(t, "https://img.example/a.jpg", ensureHTTPS("//img.example/a.jpg"))
	assert.Equal(t, "https://img.example/a.jpg", ensureHTTPS("https://img.example/a.jpg"))
	assert.Equal(t, "http://img.example/a.jpg", ensureHTTPS("http://img.example/a.jpg"))
}

func TestResolveAgainstPage(t *testing.T) {
	page := "https://ddmshu.example/product/detail.html?product_no=12"

	assert.Equal(t, "https://ddmshu.example/web/upload/1.jpg",
		resolveAgainstPage(page, "/web/upload/1.jpg"))
	assert.Equal(t, "https://cdn.example/1.jpg",
		resolveAgainstPage(page, "//cdn.example/1.jpg"))
	assert.Equal(t, "https://cdn.example/full.jpg",
		resolveAgainstPage(page, "https://cdn.example/full.jpg"))
}

func TestCollectImageURLs_LazyAttrFallbackAndDedup(t *testing.T) {
	html := `<div id="prdDetail">
		<img ec-data-src="//img.example/lazy.jpg" src="blank.gif">
		<img src="//img.example/plain.jpg">
		<img ec-data-src="//img.example/lazy.jpg" src="blank.gif">
		<img src="">
	</div>`
	doc, err := parseHTML(html)
	require.NoError(t, err)

	urls := collectImageURLs(doc, "#prdDetail img", "ec-data-src", true)
	assert.Equal(t, []string{"//img.example/lazy.jpg", "//img.example/plain.jpg"}, urls)
}

func TestCollectImageURLs_NoDedupKeepsOrder(t *testing.T) {
	html := `<div id="g"><img src="a.jpg"><img src="b.jpg"><img src="a.jpg"></div>`
	doc, err := parseHTML(html)
	require.NoError(t, err)

	urls := collectImageURLs(doc, "#g img", "", false)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "a.jpg"}, urls)
}

func TestCollectProductHrefs(t *testing.T) {
	html := `<ul id="list">
		<li><a href="https://shu.example/p/1">one</a></li>
		<li><a href="https://shu.example/p/2">two</a></li>
		<li><span>no link</span></li>
	</ul>`
	doc, err := parseHTML(html)
	require.NoError(t, err)

	hrefs := collectProductHrefs(doc, "#list > li")
	assert.Equal(t, []string{"https://shu.example/p/1", "https://shu.example/p/2"}, hrefs)
}

func TestCollectTexts(t *testing.T) {
	html := `<ul id="sizes"><li> S </li><li>M</li><li>  </li></ul>`
	doc, err := parseHTML(html)
	require.NoError(t, err)

	assert.Equal(t, []string{"S", "M"}, collectTexts(doc, "#sizes > li"))
}

func TestExtractText_MissingElement(t *testing.T) {
	doc, err := parseHTML(`<div id="x"></div>`)
	require.NoError(t, err)

	_, err = extractText(doc, "#missing")
	assert.Error(t, err)
}

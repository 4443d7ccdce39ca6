package extractor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/chromedp/cdproto/network"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urbanstyle-registrar/internal/models"
	"urbanstyle-registrar/internal/types"
	"urbanstyle-registrar/pipeline"
	"urbanstyle-registrar/utils"
)

type fakeBrowser struct {
	closed bool
}

func (b *fakeBrowser) Navigate(url string) error            { return nil }
func (b *fakeBrowser) WaitVisible(selector string) error    { return nil }
func (b *fakeBrowser) SendKeys(selector, v string) error    { return nil }
func (b *fakeBrowser) Click(selector string) error          { return nil }
func (b *fakeBrowser) Evaluate(expr string) (string, error) { return "", nil }
func (b *fakeBrowser) PageHTML() (string, error)            { return "", nil }

func (b *fakeBrowser) Location() (string, error) {
	return "https://shu.example/member/login.html", nil
}

func (b *fakeBrowser) Cookies() ([]*network.Cookie, error) {
	return []*network.Cookie{{Name: "sid", Value: "abc", Domain: ".shu.example", Path: "/"}}, nil
}

func (b *fakeBrowser) SetCookie(c *network.Cookie) error { return nil }
func (b *fakeBrowser) Close()                            { b.closed = true }

type scriptedProfile struct {
	loginErr    error
	discoverErr error
	urls        []string
	products    map[string]*types.RawProduct
	extracted   []string
}

func (p *scriptedProfile) Name() string { return "shuline" }

func (p *scriptedProfile) Login(s utils.Browser, shop *models.Shop) error {
	return p.loginErr
}

func (p *scriptedProfile) DiscoverProductURLs(s utils.Browser, shop *models.Shop) ([]string, error) {
	if p.discoverErr != nil {
		return nil, p.discoverErr
	}
	return p.urls, nil
}

func (p *scriptedProfile) ExtractProduct(s utils.Browser, shop *models.Shop, productURL string) (*types.RawProduct, error) {
	p.extracted = append(p.extracted, productURL)
	raw, ok := p.products[productURL]
	if !ok {
		return nil, errors.New("content container not found")
	}
	return raw, nil
}

type runnerProductRepo struct {
	existing  map[string]bool
	createErr error
	nextSeq   int
	created   []*models.Product
}

func (r *runnerProductRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return r.existing[code], nil
}

func (r *runnerProductRepo) Create(ctx context.Context, p *models.Product) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextSeq++
	p.Seq = r.nextSeq
	r.created = append(r.created, p)
	return nil
}

func (r *runnerProductRepo) CreateImages(ctx context.Context, imgs []*models.ProductImage) error {
	return nil
}

type nopDownloader struct {
	mu    sync.Mutex
	calls int
}

func (d *nopDownloader) Download(ctx context.Context, shop, kind, imgURL, name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	return true
}

type fakeErrorLogRepo struct {
	entries []*models.ErrorLog
}

func (f *fakeErrorLogRepo) Create(ctx context.Context, e *models.ErrorLog) error {
	f.entries = append(f.entries, e)
	return nil
}

func rawFor(code string) *types.RawProduct {
	return &types.RawProduct{
		Code:     code,
		Title:    code,
		Price:    "39000",
		ThumbURL: "https://shu.example/" + code + ".jpg",
		Shop:     "Shuline",
		URL:      "https://shu.example/p/" + code,
	}
}

type runnerHarness struct {
	runner   *Runner
	repo     *runnerProductRepo
	errLogs  *fakeErrorLogRepo
	browsers []*fakeBrowser
}

func newRunnerHarness() *runnerHarness {
	h := &runnerHarness{
		repo:    &runnerProductRepo{existing: make(map[string]bool)},
		errLogs: &fakeErrorLogRepo{},
	}
	logger := logrus.New()
	pipe := pipeline.New(h.repo, &nopDownloader{}, logger)
	h.runner = NewRunner(types.DefaultConfig(), pipe, h.errLogs, logger)
	h.runner.sessions = func(config *types.Config, logger types.Logger) (utils.Browser, error) {
		b := &fakeBrowser{}
		h.browsers = append(h.browsers, b)
		return b, nil
	}
	return h
}

func testShop() *models.Shop {
	return &models.Shop{
		ShopName: "Shuline",
		ShopURL:  "https://shu.example",
		ShopID:   "user",
		ShopPW:   "pass",
		ShopOpen: "Y",
	}
}

func TestRunner_ExtractFailureContinues(t *testing.T) {
	h := newRunnerHarness()
	profile := &scriptedProfile{
		urls: []string{"u1", "u2", "u3"},
		products: map[string]*types.RawProduct{
			"u1": rawFor("SHU-1"),
			"u3": rawFor("SHU-3"),
		},
	}

	err := h.runner.Run(context.Background(), testShop(), profile)
	require.NoError(t, err)

	// u2 fails to extract; the loop still reaches u3.
	assert.Equal(t, []string{"u1", "u2", "u3"}, profile.extracted)
	require.Len(t, h.repo.created, 2)
	assert.Equal(t, "SHU-1", h.repo.created[0].ProductCode)
	assert.Equal(t, "SHU-3", h.repo.created[1].ProductCode)
	assert.Empty(t, h.errLogs.entries)
}

func TestRunner_RegistrationFailureContinues(t *testing.T) {
	h := newRunnerHarness()
	h.repo.createErr = errors.New("insert failed")
	profile := &scriptedProfile{
		urls: []string{"u1", "u2"},
		products: map[string]*types.RawProduct{
			"u1": rawFor("SHU-1"),
			"u2": rawFor("SHU-2"),
		},
	}

	err := h.runner.Run(context.Background(), testShop(), profile)
	require.NoError(t, err)

	assert.Equal(t, []string{"u1", "u2"}, profile.extracted)
	assert.Empty(t, h.repo.created)
}

func TestRunner_LoginFailureAbortsAndLogs(t *testing.T) {
	h := newRunnerHarness()
	profile := &scriptedProfile{
		loginErr: errors.New("submit control not found"),
		urls:     []string{"u1"},
	}

	err := h.runner.Run(context.Background(), testShop(), profile)
	require.Error(t, err)

	assert.Empty(t, profile.extracted)
	require.Len(t, h.errLogs.entries, 1)
	assert.Equal(t, "https://shu.example", h.errLogs.entries[0].URL)
	assert.Contains(t, h.errLogs.entries[0].Message, "login failed")
	assert.False(t, h.errLogs.entries[0].ErrorDate.IsZero())
}

func TestRunner_DiscoveryFailureAbortsAndLogs(t *testing.T) {
	h := newRunnerHarness()
	profile := &scriptedProfile{
		discoverErr: errors.New("list items never became visible"),
	}

	err := h.runner.Run(context.Background(), testShop(), profile)
	require.Error(t, err)

	assert.Empty(t, profile.extracted)
	require.Len(t, h.errLogs.entries, 1)
	assert.Contains(t, h.errLogs.entries[0].Message, "product discovery failed")
}

func TestRunner_SessionsTornDown(t *testing.T) {
	h := newRunnerHarness()
	profile := &scriptedProfile{
		urls:     []string{"u1"},
		products: map[string]*types.RawProduct{"u1": rawFor("SHU-1")},
	}

	require.NoError(t, h.runner.Run(context.Background(), testShop(), profile))

	require.Len(t, h.browsers, 2)
	for _, b := range h.browsers {
		assert.True(t, b.closed)
	}
}

func TestRunner_SessionsTornDownOnAbort(t *testing.T) {
	h := newRunnerHarness()
	profile := &scriptedProfile{loginErr: errors.New("login page timeout")}

	require.Error(t, h.runner.Run(context.Background(), testShop(), profile))

	require.Len(t, h.browsers, 2)
	for _, b := range h.browsers {
		assert.True(t, b.closed)
	}
}

package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"sifter/internal/config"
)

var (
	browserOnce sync.Once
	browser     *rod.Browser
	pagePool    chan *rod.Page
	browserErr  error
)

// initBrowser launches the headless browser and fills the page pool with
// stealth pages. Failure is remembered so every fetch falls back to a plain
// HTTP request instead of retrying the launch.
func initBrowser() {
	browserOnce.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				browserErr = fmt.Errorf("browser launch panicked: %v", r)
				log.Warn("Headless browser unavailable, falling back to direct fetches", "error", browserErr)
			}
		}()

		b := rod.New()
		if err := b.Connect(); err != nil {
			browserErr = fmt.Errorf("browser connect: %w", err)
			log.Warn("Headless browser unavailable, falling back to direct fetches", "error", browserErr)
			return
		}
		browser = b

		poolSize := int(config.GetConfig().Scraper.PoolSize)
		if poolSize < 1 {
			poolSize = 1
		}

		pagePool = make(chan *rod.Page, poolSize)
		for i := 0; i < poolSize; i++ {
			page, err := stealth.Page(browser)
			if err != nil {
				browserErr = fmt.Errorf("create stealth page: %w", err)
				log.Warn("Headless browser unavailable, falling back to direct fetches", "error", browserErr)
				browser.MustClose()
				browser = nil
				return
			}
			pagePool <- page
		}
	})
}

// FetchPage retrieves the given URL and returns its HTML. Pages are borrowed
// from the pool and recycled afterwards; when the browser cannot run at all, or
// navigation is aborted by the site, the fetch degrades to a plain HTTP GET.
func FetchPage(url string) (string, error) {
	timeout := time.Duration(config.GetConfig().Scraper.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	initBrowser()
	if browserErr != nil || browser == nil {
		return fetchDirect(url, timeout)
	}

	var page *rod.Page
	select {
	case page = <-pagePool:
	case <-time.After(timeout):
		return "", fmt.Errorf("timeout waiting for available page")
	}
	defer recyclePage(page)

	page = page.Timeout(timeout)

	if err := page.Navigate(url); err != nil {
		if isNavigationAbortError(err) {
			return fetchDirect(url, timeout)
		}
		return "", fmt.Errorf("navigation failed: %w", err)
	}

	if err := page.WaitLoad(); err != nil {
		if isNavigationAbortError(err) {
			return fetchDirect(url, timeout)
		}
		return "", fmt.Errorf("wait load failed: %w", err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}

	return html, nil
}

// recyclePage resets a borrowed page and returns it to the pool, replacing it
// with a fresh stealth page when the reset fails.
func recyclePage(page *rod.Page) {
	if err := resetPage(page); err != nil {
		page.MustClose()
		newPage, pageErr := stealth.Page(browser)
		if pageErr != nil {
			log.Warn("could not replace faulty page", "error", pageErr)
			return
		}
		pagePool <- newPage
		return
	}
	pagePool <- page
}

func resetPage(page *rod.Page) error {
	if err := (proto.NetworkClearBrowserCookies{}).Call(page); err != nil {
		return fmt.Errorf("clear cookies: %w", err)
	}

	if err := page.Navigate("about:blank"); err != nil {
		return fmt.Errorf("navigate blank: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait blank: %w", err)
	}

	_, _ = page.Eval(`() => {
		try {
			localStorage.clear();
			sessionStorage.clear();
		} catch (e) {
			// Silently ignore security errors
		}
		return true;
	}`)

	return nil
}

func isNavigationAbortError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	abortSignatures := []string{
		"net::ERR_ABORTED",
		"NS_BINDING_ABORTED",
		"ERR_INTERNET_DISCONNECTED",
	}
	for _, sig := range abortSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

func fetchDirect(url string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "sifter-scraper/1.0")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("fetch status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Cleanup closes every pooled page and the browser itself. Call before a
// graceful shutdown.
func Cleanup() {
	if browser == nil {
		return
	}
	for {
		select {
		case p := <-pagePool:
			p.MustClose()
		default:
			browser.MustClose()
			return
		}
	}
}

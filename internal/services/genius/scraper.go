package genius

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/AndrewDonelson/music-storyteller/pkg/lyrics"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// containerSelectors is the fallback chain for locating the lyrics
// subtree, ordered from the current page layout down to legacy ones
var containerSelectors = []string{
	`[data-lyrics-container="true"]`,
	`div[class*="Lyrics__Container"]`,
	`div[class*="lyrics"]`,
	`div[id*="lyrics"]`,
}

var (
	chromeClassPattern      = regexp.MustCompile(`InreadAd|RightSidebar|SongHeaderDesktop|SongHeaderMobile|Annotation|ReferentFragmentVariantdesktop`)
	contributorClassPattern = regexp.MustCompile(`Contributors|Translations|SongDescription|HeaderWithSmallTitle`)
	boilerplateTextPattern  = regexp.MustCompile(`Read More|Contributors|Translations|Lyrics`)
)

// ScrapeLyrics fetches a lyrics page and extracts cleaned lyric text.
// Any failure, including a page with no recognizable lyrics container,
// yields ErrNotFound rather than a hard error.
func (c *Client) ScrapeLyrics(ctx context.Context, lyricsURL string) (string, error) {
	log.Printf("Scraping lyrics from: %s", lyricsURL)

	doc, err := c.fetchPage(ctx, lyricsURL)
	if err != nil {
		log.Printf("Failed to fetch lyrics page %s: %v", lyricsURL, err)
		return "", ErrNotFound
	}

	containers := findLyricsContainers(doc)
	if containers == nil {
		log.Printf("Could not find lyrics container on page: %s", lyricsURL)
		return "", ErrNotFound
	}

	var parts []string
	containers.Each(func(_ int, container *goquery.Selection) {
		cleanContainer(container)
		if text := textWithNewlines(container); strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		log.Printf("No lyrics text found on page: %s", lyricsURL)
		return "", ErrNotFound
	}

	cleaned := lyrics.Clean(strings.Join(parts, "\n"))
	if cleaned == "" {
		return "", ErrNotFound
	}

	log.Printf("Successfully scraped and formatted lyrics (%d characters)", len(cleaned))
	return cleaned, nil
}

// fetchPage retrieves an HTML page with the configured user agent and
// rate limit applied
func (c *Client) fetchPage(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.web.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page request failed with status %d", resp.StatusCode)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// findLyricsContainers tries each selector strategy in order until one
// yields a non-empty match
func findLyricsContainers(doc *goquery.Document) *goquery.Selection {
	for _, selector := range containerSelectors {
		if matched := doc.Find(selector); matched.Length() > 0 {
			return matched
		}
	}
	return nil
}

// cleanContainer strips page furniture from a lyrics container while
// preserving lyric text and line structure
func cleanContainer(container *goquery.Selection) {
	container.Find("script, style, noscript").Remove()

	// Ads, sidebars, headers and annotation overlays
	removeByClassPattern(container, chromeClassPattern)

	// Keep the text of click-to-annotate fragments, drop the wrapper
	container.Find("[data-click-to-annotate]").Each(func(_ int, wrapper *goquery.Selection) {
		wrapper.Contents().Unwrap()
	})

	// Contributor credits, translation menus, song descriptions
	removeByClassPattern(container, contributorClassPattern)

	// Leaf elements whose text is boilerplate or a bare language name
	container.Find("*").Each(func(_ int, el *goquery.Selection) {
		if el.Children().Length() > 0 {
			return
		}
		text := strings.TrimSpace(el.Text())
		if text == "" {
			return
		}
		if boilerplateTextPattern.MatchString(text) || lyrics.IsLanguageName(text) {
			el.Remove()
		}
	})

	// Line breaks become newlines; paragraphs get a trailing separator
	container.Find("br").ReplaceWithHtml("\n")
	container.Find("p").Each(func(_ int, p *goquery.Selection) {
		if strings.TrimSpace(p.Text()) != "" {
			p.AfterHtml("\n")
		}
	})
}

func removeByClassPattern(container *goquery.Selection, pattern *regexp.Regexp) {
	container.Find("[class]").Each(func(_ int, el *goquery.Selection) {
		if class, ok := el.Attr("class"); ok && pattern.MatchString(class) {
			el.Remove()
		}
	})
}

// textWithNewlines concatenates the remaining text nodes of a selection
// with newline separators, trimming each segment
func textWithNewlines(sel *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, node := range sel.Nodes {
		walk(node)
	}
	return strings.Join(parts, "\n")
}

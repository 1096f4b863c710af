package lyrics

import (
	"regexp"
	"strings"
)

// captureState tracks whether line filtering has reached actual lyric
// content. Once capturing starts there is no transition back.
type captureState int

const (
	searching captureState = iota
	capturing
)

// sectionMarkers are the structural tokens that mark the start of lyric
// content ([Verse 1], [Chorus], [Pre-Chorus], ...)
var sectionMarkers = []string{
	"[Verse", "[Chorus", "[Bridge", "[Outro", "[Intro", "[Pre-", "[Post-",
}

// languageNames covers the translation menu Genius renders above lyrics
// on multi-language pages, in each language's native script
var languageNames = []string{
	"Nederlands", "Türkçe", "Español", "srpski", "Русский", "Português",
	"فارسی", "Italiano", "Magyar", "Deutsch", "Français", "hrvatski",
	"Ελληνικά", "Українська", "Polski", "Română", "Slovenščina",
	"Čechy", "Català",
}

var metadataMarkers = append([]string{"Contributors", "Translations", "Read More"}, languageNames...)

var (
	multiNewline    = regexp.MustCompile(`\n\s*\n\s*\n+`)
	horizWhitespace = regexp.MustCompile(`[ \t]+`)
	spaceAfterBreak = regexp.MustCompile(`\n `)
	spaceBeforeEnd  = regexp.MustCompile(` \n`)

	// Recurring page furniture that survives the line filter
	artifactPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?im)\d+Embed$`),
		regexp.MustCompile(`(?i)You might also like`),
		regexp.MustCompile(`(?is)See .* LiveGet tickets as low as \$\d+`),
		regexp.MustCompile(`(?is)ContributorsTranslations.*?Lyrics`),
		regexp.MustCompile(`(?is)On ".*?" the .* track off.*?Read More`),
	}
)

// IsLanguageName reports whether s is exactly one of the known
// translation-menu language names
func IsLanguageName(s string) bool {
	s = strings.TrimSpace(s)
	for _, name := range languageNames {
		if s == name {
			return true
		}
	}
	return false
}

// HasSectionMarker reports whether the line contains a structural lyric
// marker such as [Verse 1] or [Chorus]
func HasSectionMarker(line string) bool {
	for _, marker := range sectionMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

func isMetadataLine(line string) bool {
	for _, marker := range metadataMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

// Clean filters scraped lyric text line by line and normalizes the
// result. Lines before the first structural marker are discarded along
// with contributor credits, translation menus and title-repeat
// artifacts ("Some Title Lyrics"). Returns "" when nothing lyrical
// remains.
func Clean(raw string) string {
	lines := strings.Split(raw, "\n")
	cleanLines := make([]string, 0, len(lines))
	state := searching

	for _, line := range lines {
		line = strings.TrimSpace(line)

		// Blank lines are only meaningful once lyrics have started
		if line == "" {
			if state == capturing {
				cleanLines = append(cleanLines, "")
			}
			continue
		}

		if isMetadataLine(line) {
			continue
		}

		// Song title repeated as "<Title> Lyrics"
		if strings.HasSuffix(line, " Lyrics") && len(strings.Fields(line)) <= 3 {
			continue
		}

		if HasSectionMarker(line) {
			state = capturing
		}
		if state == capturing {
			cleanLines = append(cleanLines, line)
		}
	}

	cleaned := strings.Join(cleanLines, "\n")

	cleaned = multiNewline.ReplaceAllString(cleaned, "\n\n")
	cleaned = horizWhitespace.ReplaceAllString(cleaned, " ")
	cleaned = spaceAfterBreak.ReplaceAllString(cleaned, "\n")
	cleaned = spaceBeforeEnd.ReplaceAllString(cleaned, "\n")

	for _, pattern := range artifactPatterns {
		cleaned = pattern.ReplaceAllString(cleaned, "")
	}

	return strings.TrimSpace(cleaned)
}

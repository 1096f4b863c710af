package genius

import (
	"log"
	"regexp"
	"strconv"
	"strings"
)

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// maxGenreTags caps how many tag names make it into the genre string
const maxGenreTags = 3

type metadata struct {
	Album       string
	ReleaseYear int
	Genre       string
}

// extractMetadata maps the raw song payload to clean metadata. Year
// extraction looks for the first 4-digit token in the display date;
// parse failures are logged and leave the year absent.
func extractMetadata(detail *SongDetail) metadata {
	var meta metadata

	if detail.Album != nil {
		meta.Album = detail.Album.Name
	}

	if detail.ReleaseDateForDisplay != "" {
		if match := yearPattern.FindString(detail.ReleaseDateForDisplay); match != "" {
			year, err := strconv.Atoi(match)
			if err != nil {
				log.Printf("Could not parse release year from: %s", detail.ReleaseDateForDisplay)
			} else {
				meta.ReleaseYear = year
			}
		}
	}

	var tags []string
	for _, tag := range detail.Tags {
		if tag.Name == "" {
			continue
		}
		tags = append(tags, tag.Name)
		if len(tags) == maxGenreTags {
			break
		}
	}
	meta.Genre = strings.Join(tags, ", ")

	return meta
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/AndrewDonelson/music-storyteller/config"
	"github.com/AndrewDonelson/music-storyteller/internal/services/genius"
)

// Debug tool: fetch and print the assembled record for a song without
// touching the database or the LLM.
func main() {
	query := flag.String("query", "", "song search query, e.g. \"yesterday beatles\"")
	showLyrics := flag.Bool("lyrics", false, "print the scraped lyrics")
	flag.Parse()

	if *query == "" {
		log.Fatal("usage: songcheck -query \"song name artist\" [-lyrics]")
	}

	cfg := config.LoadConfig()
	client := genius.NewClient(cfg)
	ctx := context.Background()

	fmt.Println("🔍 Song Check")
	fmt.Println("=============")

	results, err := client.Search(ctx, *query, 5)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}
	if len(results) == 0 {
		log.Fatalf("No results for %q", *query)
	}

	fmt.Printf("\nTop results for %q:\n", *query)
	for i, r := range results {
		fmt.Printf("  %d. %s - %s (id %d)\n", i+1, r.Artist, r.Title, r.ID)
	}

	song, err := client.CompleteSong(ctx, results[0].ID)
	if err != nil {
		log.Fatalf("Failed to assemble song %d: %v", results[0].ID, err)
	}

	fmt.Printf("\n📋 Assembled record for %q:\n", song.Title)
	fmt.Printf("   Artist:       %s\n", song.Artist)
	fmt.Printf("   Album:        %s\n", valueOr(song.Album, "unknown"))
	fmt.Printf("   Genre:        %s\n", valueOr(song.Genre, "unknown"))
	if song.ReleaseYear != 0 {
		fmt.Printf("   Release year: %d\n", song.ReleaseYear)
	} else {
		fmt.Println("   Release year: unknown")
	}
	fmt.Printf("   Annotations:  %d\n", len(song.Annotations))
	fmt.Printf("   Lyrics:       %d characters\n", len(song.Lyrics))

	if *showLyrics && song.Lyrics != "" {
		fmt.Println("\n🎵 Lyrics:")
		fmt.Println(strings.Repeat("-", 40))
		fmt.Println(song.Lyrics)
		fmt.Println(strings.Repeat("-", 40))
	}
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

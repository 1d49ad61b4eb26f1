package cmd

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Johell1NS/StepGenerator/constants"
	"github.com/Johell1NS/StepGenerator/sm"
	"github.com/Johell1NS/StepGenerator/util"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the song library over HTTP",
	Long:  `Serves the song library over HTTP so a frontend can browse charts.`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

type songSummary struct {
	Name   string         `json:"name"`
	Title  string         `json:"title"`
	Artist string         `json:"artist"`
	Tiers  map[string]int `json:"tiers"`
}

func summarize(path string) (*songSummary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sim, err := sm.Parse(raw)
	if err != nil {
		return nil, err
	}

	s := &songSummary{
		Name:   filepath.Base(path),
		Title:  sim.Title,
		Artist: sim.Artist,
		Tiers:  make(map[string]int),
	}
	for tier, chart := range sim.Charts {
		s.Tiers[string(tier)] = chart.Grid.NoteCount()
	}
	return s, nil
}

func HandleSongs(w http.ResponseWriter, r *http.Request) {
	summaries := make([]*songSummary, 0)
	for _, path := range util.GatherAllChartPaths(constants.GetSongsDir(), 0) {
		s, err := summarize(path)
		if err != nil {
			continue
		}
		summaries = append(summaries, s)
	}
	json.NewEncoder(w).Encode(summaries)
}

func HandleSong(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name != filepath.Base(name) {
		http.Error(w, "bad song name", 400)
		return
	}

	for _, path := range util.GatherAllChartPaths(constants.GetSongsDir(), 0) {
		if filepath.Base(path) != name {
			continue
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			break
		}
		if _, err := sm.Parse(raw); err != nil {
			http.Error(w, "unreadable simfile: "+err.Error(), 500)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write(raw)
		return
	}
	http.Error(w, "no such song", 404)
}

func serve() {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/songs", HandleSongs).Methods("GET")
	router.HandleFunc("/songs/{name}", HandleSong).Methods("GET")
	log.Fatal(http.ListenAndServe(serveAddr, cors.Default().Handler(router)))
}

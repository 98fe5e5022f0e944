package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime/debug"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/notnil/chess"

	. "github.com/ayushmko73/chess-multiplayer-ai/internal/helpers"
	"github.com/ayushmko73/chess-multiplayer-ai/internal/lobby"
	"github.com/ayushmko73/chess-multiplayer-ai/internal/search"
)

type UpdateToWeb struct {
	GameId        string   `json:"gameId"`
	FenString     string   `json:"fenString"`
	LastMove      string   `json:"lastMove"`
	Selection     string   `json:"selection"`
	PossibleMoves []string `json:"possibleMoves"`
	Player        string   `json:"player"`
	GameOver      string   `json:"gameOver"`
}

func (u UpdateToWeb) String() string {
	return fmt.Sprint("UpdateToWeb: ", u.FenString, ", ", u.LastMove, ", ", u.Selection, ", ", u.PossibleMoves)
}

type MessageFromWeb struct {
	NewFen      *string `json:"newFen"`
	WhitePlayer *string `json:"whitePlayer"`
	BlackPlayer *string `json:"blackPlayer"`
	Selection   *string `json:"selection"`
	Move        *string `json:"move"`
	Ready       *bool   `json:"ready"`
	Rewind      *int    `json:"rewind"`
}

func (u MessageFromWeb) String() string {
	if u.NewFen != nil {
		return fmt.Sprint("MessageFromWeb NewFen: ", *u.NewFen)
	}
	if u.WhitePlayer != nil {
		return fmt.Sprint("MessageFromWeb WhitePlayer: ", *u.WhitePlayer)
	}
	if u.BlackPlayer != nil {
		return fmt.Sprint("MessageFromWeb BlackPlayer: ", *u.BlackPlayer)
	}
	if u.Selection != nil {
		return fmt.Sprint("MessageFromWeb Selection: ", *u.Selection)
	}
	if u.Move != nil {
		return fmt.Sprint("MessageFromWeb Move: ", *u.Move)
	}
	if u.Ready != nil {
		return fmt.Sprint("MessageFromWeb Ready: ", *u.Ready)
	}
	if u.Rewind != nil {
		return fmt.Sprint("MessageFromWeb Rewind: ", *u.Rewind)
	}
	return "MessageFromWeb unknown"
}

type LogForwarding struct {
	writeCallback func(message string)
}

func (l *LogForwarding) Println(v ...any) {
	l.writeCallback(fmt.Sprintln(v...))
}
func (l *LogForwarding) Printf(format string, v ...any) {
	l.writeCallback(fmt.Sprintf(format, v...))
}
func (l *LogForwarding) Print(v ...any) {
	l.writeCallback(fmt.Sprint(v...))
}

// PlayerConfig says who plays a color: the user, or the engine at some
// difficulty.
type PlayerConfig struct {
	IsUser     bool
	Difficulty search.Difficulty
}

func PlayerConfigFromString(s string) PlayerConfig {
	if difficulty, err := search.DifficultyFromString(s); IsNil(err) {
		return PlayerConfig{Difficulty: difficulty}
	}
	return PlayerConfig{IsUser: true}
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, fmt.Sprint(r))
			fmt.Fprintln(os.Stderr, string(debug.Stack()))
		}
	}()

	manager := lobby.NewManager()

	var upgrader = websocket.Upgrader{}

	var ws = func(w http.ResponseWriter, r *http.Request) {
		playerConfigs := map[chess.Color]PlayerConfig{
			chess.White: {IsUser: true},
			chess.Black: {IsUser: true},
		}
		ready := false

		c, err := upgrader.Upgrade(w, r, nil)
		if !IsNil(err) {
			panic(err)
		}

		var forward = func(message string) {
			log.Print("logging: ", message)
			bytes, err := json.Marshal([]string{message})
			if !IsNil(err) {
				fmt.Fprintln(os.Stderr, fmt.Sprint("logging: json marshal: ", err))
			}
			err = c.WriteMessage(websocket.TextMessage, bytes)
			if !IsNil(err) {
				fmt.Fprintln(os.Stderr, fmt.Sprint("logging: websocket: ", err))
			}
		}

		logger := &LogForwarding{
			writeCallback: func(message string) {
				forward(fmt.Sprintf("server: %v", message))
			},
		}
		engineLogger := &LogForwarding{
			writeCallback: func(message string) {
				forward(fmt.Sprintf("engine: %v", message))
			},
		}

		// The same game id from two browsers shares one session.
		var session *lobby.Session
		if id := r.URL.Query().Get("game"); id != "" {
			joined, err := manager.Get(id)
			if !IsNil(err) {
				logger.Println("join: ", err)
			} else {
				session = joined
			}
		}
		if session == nil {
			created, err := manager.NewSession(engineLogger)
			if !IsNil(err) {
				panic(err)
			}
			session = created
		}
		runner := session.Runner

		var finalizeUpdate = func(update UpdateToWeb) {
			update.GameId = session.ID
			update.FenString = runner.FenString()
			if runner.Player() == chess.White {
				update.Player = "white"
			} else {
				update.Player = "black"
			}
			if lastMove := runner.LastMove(); lastMove.HasValue() {
				update.LastMove = lastMove.Value()
			}
			if outcome := runner.Outcome(); outcome != chess.NoOutcome {
				update.GameOver = fmt.Sprintf("%v by %v", outcome, runner.Method())
			}

			logger.Println("sending", update)
			bytes, err := json.Marshal(update)
			if !IsNil(err) {
				logger.Println("update: json marshal: ", err)
			}
			err = c.WriteMessage(websocket.TextMessage, bytes)
			if !IsNil(err) {
				logger.Println("websocket: ", err)
			}
		}

		var performEngineMove = func() bool {
			if !ready {
				return false
			}
			config := playerConfigs[runner.Player()]
			if config.IsUser {
				return false
			}

			bestMove, err := runner.Search(config.Difficulty)
			if !IsNil(err) {
				logger.Println("search: ", err)
				return false
			}

			if bestMove.HasValue() {
				logger.Println("search: ", bestMove.Value())
				err := runner.PerformMoveFromString(bestMove.Value())
				if !IsNil(err) {
					logger.Println("perform: ", bestMove.Value(), err)
					return false
				}
			} else {
				logger.Println("no move found")
				return false
			}

			manager.Touch(session.ID)
			return true
		}

		var handleMessageFromWeb = func(bytes []byte) {
			session.Mu.Lock()
			defer session.Mu.Unlock()

			var message MessageFromWeb
			err := json.Unmarshal(bytes, &message)
			if !IsNil(err) {
				logger.Println("handleMessageFromWeb: json unmarshal: ", err)
			}
			logger.Println("received", message)

			var update UpdateToWeb
			shouldUpdate := false

			if message.NewFen != nil {
				err := runner.SetupPosition(Position{
					Fen:   *message.NewFen,
					Moves: []string{},
				})
				if !IsNil(err) {
					logger.Println("setup: ", err)
				}
				shouldUpdate = true
			} else if message.WhitePlayer != nil {
				playerConfigs[chess.White] = PlayerConfigFromString(*message.WhitePlayer)
			} else if message.BlackPlayer != nil {
				playerConfigs[chess.Black] = PlayerConfigFromString(*message.BlackPlayer)
			} else if message.Selection != nil {
				if *message.Selection != "" {
					update.Selection = *message.Selection
					result, err := runner.MovesForSelection(*message.Selection)
					if !IsNil(err) {
						logger.Println("moves for: ", message.Selection, err)
					}
					update.PossibleMoves = result
				}
				shouldUpdate = true
			} else if message.Move != nil {
				err := runner.PerformMoveFromString(*message.Move)
				if !IsNil(err) {
					logger.Println("perform: ", message.Move, err)
				}
				manager.Touch(session.ID)
				shouldUpdate = true
			} else if message.Rewind != nil {
				err := runner.Rewind(*message.Rewind)
				if !IsNil(err) {
					logger.Println("rewind: ", message.Rewind, err)
				}
				shouldUpdate = true
			} else if message.Ready != nil {
				if !ready {
					ready = *message.Ready
					shouldUpdate = true
				}
			}

			if shouldUpdate || (ready && performEngineMove()) {
				finalizeUpdate(update)
			}
		}

		defer c.Close()
		for {
			_, message, err := c.ReadMessage()
			if !IsNil(err) {
				logger.Printf("Error: %v", err)
				break
			} else {
				handleMessageFromWeb(message)
			}
		}
	}

	var index = func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "static/index.html")
	}

	port := 8002

	args := os.Args[1:]
	for _, arg := range args {
		if parsed, err := strconv.ParseInt(arg, 10, 64); err == nil {
			port = int(parsed)
		}
	}

	log.Println("serving at", port)

	router := mux.NewRouter()
	router.HandleFunc("/ws", ws)
	router.PathPrefix("/static").Handler(
		http.StripPrefix("/static", http.FileServer(http.Dir("static"))))
	router.PathPrefix("/{white}/{black}").HandlerFunc(index)
	router.HandleFunc("/", index)
	http.Handle("/", router)
	err := Wrap(http.ListenAndServe(fmt.Sprintf(":%v", port), router))
	if !IsNil(err) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

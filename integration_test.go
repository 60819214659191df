package main

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"gostop-server/api"
	"gostop-server/config"
	"gostop-server/deal"
	"gostop-server/matchmaking"
	"gostop-server/variant"
	"gostop-server/ws"
)

// setupTestServerWithConfig creates a test HTTP server with the given config.
func setupTestServerWithConfig(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	variants := variant.Default(cfg.GoStopThreshold)
	mm, err := matchmaking.NewMatchmaker(cfg, variants, deal.New(42), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go mm.Run(ctx)

	hub := ws.NewHub(cfg, mm, nil)
	go hub.Run(ctx)

	handler := api.NewHandler(nil, nil, variants, mm)
	server := httptest.NewServer(api.NewRouter(handler, hub.ServeWS))
	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return server
}

// setupTestServer creates a test HTTP server with the full game server stack.
func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Defaults()
	cfg.AIPairTimeoutSec = -1
	cfg.ReconnectTimeoutSec = 1
	return setupTestServerWithConfig(t, cfg)
}

// connectWS creates a WebSocket connection to the test server.
func connectWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	return conn
}

// readMsg reads a JSON message from the WebSocket and returns it as a map.
func readMsg(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("failed to unmarshal: %v\ndata: %s", err, string(data))
	}
	return msg
}

// readUntil reads messages until one of type typ arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) map[string]any {
	t.Helper()
	for i := 0; i < 100; i++ {
		if msg := readMsg(t, conn); msg["type"] == typ {
			return msg
		}
	}
	t.Fatalf("no %s message", typ)
	return nil
}

// firstPlain returns the first card in hand that is not a bonus card.
func firstPlain(t *testing.T, state map[string]any) any {
	t.Helper()
	for _, c := range state["hand"].([]any) {
		if !strings.HasPrefix(c.(string), "bonus") {
			return c
		}
	}
	t.Fatal("hand holds only bonus cards")
	return nil
}

// sendMsg sends a JSON message over the WebSocket.
func sendMsg(t *testing.T, conn *websocket.Conn, msg any) {
	t.Helper()
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
}

// joinPair seats Alice and Bob at one table and returns their match_found messages.
func joinPair(t *testing.T, conn1, conn2 *websocket.Conn) (map[string]any, map[string]any) {
	t.Helper()
	sendMsg(t, conn1, map[string]string{"type": "set_name", "name": "Alice"})
	if msg := readMsg(t, conn1); msg["type"] != "waiting_for_match" {
		t.Fatalf("expected waiting_for_match, got %v", msg["type"])
	}
	sendMsg(t, conn2, map[string]string{"type": "set_name", "name": "Bob"})

	mf1 := readUntil(t, conn1, "match_found")
	mf2 := readUntil(t, conn2, "match_found")
	return mf1, mf2
}

func TestIntegration_MatchAndFirstPlay(t *testing.T) {
	server := setupTestServer(t)

	conn1 := connectWS(t, server)
	defer conn1.Close()
	conn2 := connectWS(t, server)
	defer conn2.Close()

	mf1, mf2 := joinPair(t, conn1, conn2)
	if mf1["gameId"] != mf2["gameId"] {
		t.Fatalf("expected one game, got %v and %v", mf1["gameId"], mf2["gameId"])
	}
	if opp := mf1["opponents"].([]any); len(opp) != 1 || opp[0] != "Bob" {
		t.Errorf("expected opponent Bob, got %v", opp)
	}
	if mf1["yourTurn"] != true || mf2["yourTurn"] != false {
		t.Errorf("expected Alice to start, got %v and %v", mf1["yourTurn"], mf2["yourTurn"])
	}

	state1 := readUntil(t, conn1, "game_state")
	state2 := readUntil(t, conn2, "game_state")
	if state1["yourTurn"] != true || state1["turnPhase"] != "playing_card" {
		t.Fatalf("expected Alice to play a card, got %v %v", state1["yourTurn"], state1["turnPhase"])
	}
	if state2["yourTurn"] != false || state2["deckCount"] != state1["deckCount"] {
		t.Errorf("expected Bob to wait on the same deck, got %v %v", state2["yourTurn"], state2["deckCount"])
	}

	// Bob is refused while it is Alice's turn.
	sendMsg(t, conn2, map[string]string{"type": "draw"})
	if msg := readUntil(t, conn2, "error"); msg["message"] != "not current player's turn" {
		t.Errorf("unexpected refusal %v", msg["message"])
	}

	hand := state1["hand"].([]any)
	sendMsg(t, conn1, map[string]any{"type": "play_card", "card": firstPlain(t, state1)})

	ev := readUntil(t, conn2, "event")
	if _, ok := ev["change"].(map[string]any); !ok {
		t.Errorf("expected an encoded change, got %v", ev)
	}
	after := readUntil(t, conn1, "game_state")
	if after["turnPhase"] != "drawing_card" {
		t.Errorf("expected drawing_card after the play, got %v", after["turnPhase"])
	}
	if n := len(after["hand"].([]any)); n != len(hand)-1 {
		t.Errorf("expected %d cards in hand, got %d", len(hand)-1, n)
	}
}

func TestIntegration_ErrorOnInvalidName(t *testing.T) {
	server := setupTestServer(t)
	conn := connectWS(t, server)
	defer conn.Close()

	sendMsg(t, conn, map[string]string{"type": "set_name", "name": ""})
	msg := readMsg(t, conn)
	if msg["type"] != "error" {
		t.Fatalf("expected error, got %v", msg["type"])
	}
}

func TestIntegration_ActionNotInGame(t *testing.T) {
	server := setupTestServer(t)
	conn := connectWS(t, server)
	defer conn.Close()

	sendMsg(t, conn, map[string]string{"type": "go"})
	msg := readMsg(t, conn)
	if msg["type"] != "error" || msg["message"] != "You are not in a game." {
		t.Errorf("expected not-in-game error, got %v", msg)
	}
}

func TestIntegration_RejoinAfterDisconnect(t *testing.T) {
	cfg := config.Defaults()
	cfg.AIPairTimeoutSec = -1
	server := setupTestServerWithConfig(t, cfg)

	conn1 := connectWS(t, server)
	defer conn1.Close()
	conn2 := connectWS(t, server)

	_, mf2 := joinPair(t, conn1, conn2)
	readUntil(t, conn1, "game_state")
	conn2.Close()

	if msg := readUntil(t, conn1, "player_reconnecting"); msg["name"] != "Bob" {
		t.Errorf("expected Bob to be reconnecting, got %v", msg)
	}

	conn3 := connectWS(t, server)
	defer conn3.Close()
	sendMsg(t, conn3, map[string]any{"type": "rejoin", "gameId": mf2["gameId"], "rejoinToken": mf2["rejoinToken"]})
	if msg := readUntil(t, conn3, "match_found"); msg["playerId"] != mf2["playerId"] {
		t.Errorf("expected to rejoin as %v, got %v", mf2["playerId"], msg["playerId"])
	}
	readUntil(t, conn3, "game_state")
	readUntil(t, conn1, "player_reconnected")
}

func TestIntegration_OpponentTimesOut(t *testing.T) {
	server := setupTestServer(t)

	conn1 := connectWS(t, server)
	defer conn1.Close()
	conn2 := connectWS(t, server)

	joinPair(t, conn1, conn2)
	conn2.Close()

	if msg := readUntil(t, conn1, "player_left"); msg["name"] != "Bob" {
		t.Errorf("expected Bob to leave, got %v", msg)
	}

	// The finished game frees Alice to queue again.
	sendMsg(t, conn1, map[string]string{"type": "play_again"})
	if msg := readUntil(t, conn1, "waiting_for_match"); msg["type"] != "waiting_for_match" {
		t.Errorf("expected waiting_for_match, got %v", msg)
	}
}

func TestIntegration_SinglePlayerVsAI(t *testing.T) {
	cfg := config.Defaults()
	cfg.AIPairTimeoutSec = 0
	cfg.AIProfiles = []config.AIParams{{Name: "Halmeoni", DelayMinMS: 10, DelayMaxMS: 20, GreedyChance: 100}}
	server := setupTestServerWithConfig(t, cfg)

	conn := connectWS(t, server)
	defer conn.Close()
	sendMsg(t, conn, map[string]string{"type": "set_name", "name": "Alice"})

	mf := readUntil(t, conn, "match_found")
	if opp := mf["opponents"].([]any); len(opp) != 1 || opp[0] != "Halmeoni" {
		t.Errorf("expected opponent Halmeoni, got %v", opp)
	}

	// Alice plays her first card; the bot answers with a move of its own.
	state := readUntil(t, conn, "game_state")
	sendMsg(t, conn, map[string]any{"type": "play_card", "card": firstPlain(t, state)})
	for {
		st := readUntil(t, conn, "game_state")
		if st["yourTurn"] != true {
			break
		}
		switch st["turnPhase"] {
		case "drawing_card":
			sendMsg(t, conn, map[string]string{"type": "draw"})
		case "taking_cards":
			sendMsg(t, conn, map[string]any{"type": "take", "cards": []any{}})
		case "deciding_go_stop":
			sendMsg(t, conn, map[string]string{"type": "stop"})
		case "playing_card":
			sendMsg(t, conn, map[string]any{"type": "play_card", "card": firstPlain(t, st)})
		}
	}

	var moved bool
	for i := 0; i < 50 && !moved; i++ {
		msg := readMsg(t, conn)
		if msg["type"] == "game_state" && msg["yourTurn"] == true {
			moved = true
		}
		if msg["type"] == "game_over" {
			moved = true
		}
	}
	if !moved {
		t.Error("expected the bot to finish its turn")
	}
}

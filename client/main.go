package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// send formats and sends an event to the game server.
func send(c *websocket.Conn, action string) error {
	data, err := json.Marshal(map[string]string{"action": action})
	if err != nil {
		return err
	}
	return c.WriteMessage(websocket.TextMessage, data)
}

func main() {
	addr := flag.String("addr", "localhost:8080", "server address")
	roomID := flag.String("room", "r1", "room id to join")
	user := flag.String("user", "alice", "player username")
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	u := url.URL{
		Scheme:   "ws",
		Host:     *addr,
		Path:     "/ws/game/" + *roomID,
		RawQuery: "user=" + url.QueryEscape(*user),
	}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			log.Printf("<- RECV: %s", string(message))
		}
	}()

	log.Println("Client started. Type 'roll', 'confirm' or 'cancel' and press Enter.")

	// Write loop
	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			action := ""
			switch strings.TrimSpace(text) {
			case "roll":
				action = "roll"
			case "confirm":
				action = "confirm_decision"
			case "cancel":
				action = "cancel_decision"
			default:
				continue
			}
			if err := send(c, action); err != nil {
				log.Println("Write error:", err)
				return
			}
			log.Printf("-> SENT: %s", action)
		}
	}
}

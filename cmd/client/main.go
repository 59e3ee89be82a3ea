// Terminal chat client: connects to the /ws endpoint, joins rooms, sends
// messages, and keeps a live conversation list via the chatlist reducer.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"stayfinder-backend/chatlist"
	"stayfinder-backend/ws"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	token     string
	userID    string
	ownPosts  []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stayfinder-client",
		Short: "Terminal client for the StayFinder chat socket",
		Run:   runClient,
	}

	rootCmd.Flags().StringVarP(&serverURL, "server", "s", "ws://localhost:8080/ws", "socket endpoint")
	rootCmd.Flags().StringVarP(&token, "token", "t", "", "JWT from /auth/login (required)")
	rootCmd.Flags().StringVarP(&userID, "user", "u", "", "own user id (required)")
	rootCmd.Flags().StringSliceVar(&ownPosts, "posts", nil, "ids of own listings, for the mine/others split")
	rootCmd.MarkFlagRequired("token")
	rootCmd.MarkFlagRequired("user")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

type client struct {
	conn *websocket.Conn
	list *chatlist.List
}

func runClient(cmd *cobra.Command, args []string) {
	u, err := url.Parse(serverURL)
	if err != nil {
		log.Fatalf("bad server url: %v", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	log.Printf("connected to %s", serverURL)

	c := &client{conn: conn, list: chatlist.New(userID, ownPosts)}
	go c.readPump()
	c.handleStdin()
}

// readPump renders incoming frames and feeds list-sync events through the
// reducer.
func (c *client) readPump() {
	defer c.conn.Close()
	for {
		var frame ws.Frame
		if err := c.conn.ReadJSON(&frame); err != nil {
			log.Printf("connection closed: %v", err)
			os.Exit(0)
		}

		switch frame.Event {
		case ws.EventReceiveMessage:
			var env ws.Envelope
			if err := json.Unmarshal(frame.Data, &env); err != nil {
				continue
			}
			fmt.Printf("[%s] %s: %s\n", env.ChatRoom, env.SenderName, env.Content)
		case ws.EventUpdateMessage:
			var env ws.Envelope
			if err := json.Unmarshal(frame.Data, &env); err != nil {
				continue
			}
			tab := c.list.Apply(env)
			fmt.Printf("(chat list updated, active tab: %s)\n", tab)
		case ws.EventError:
			var p ws.ErrorPayload
			if err := json.Unmarshal(frame.Data, &p); err != nil {
				continue
			}
			fmt.Printf("server error: %s\n", p.Message)
		}
	}
}

func (c *client) handleStdin() {
	fmt.Println("commands: /join <room>, /leave <room>, /send <room> <text>, /list, /quit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, " ", 3)

		switch fields[0] {
		case "/join":
			if len(fields) < 2 {
				fmt.Println("usage: /join <room>")
				continue
			}
			c.sendFrame(ws.EventJoinRoom, ws.RoomPayload{RoomID: fields[1]})
		case "/leave":
			if len(fields) < 2 {
				fmt.Println("usage: /leave <room>")
				continue
			}
			c.sendFrame(ws.EventLeaveRoom, ws.RoomPayload{RoomID: fields[1]})
		case "/send":
			if len(fields) < 3 {
				fmt.Println("usage: /send <room> <text>")
				continue
			}
			c.sendFrame(ws.EventSendMessage, ws.SendMessagePayload{
				ChatID:  fields[1],
				Message: fields[2],
				Sender:  userID,
			})
		case "/list":
			for _, e := range c.list.Entries() {
				marker := ""
				if e.Placeholder {
					marker = " (pending refetch)"
				}
				fmt.Printf("  %s  %s: %s%s\n", e.RoomID, e.LatestSender, e.LatestContent, marker)
			}
			fmt.Printf("active tab: %s\n", c.list.ActiveTab)
		case "/quit":
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		default:
			fmt.Println("unknown command")
		}
	}
}

func (c *client) sendFrame(event string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := c.conn.WriteJSON(ws.Frame{Event: event, Data: raw}); err != nil {
		log.Printf("write error: %v", err)
	}
}

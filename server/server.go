package server

import (
	"net/http"
	netrpc "net/rpc"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wfunc/monopoly/broadcast"
	"github.com/wfunc/monopoly/config"
	"github.com/wfunc/monopoly/dispatch"
	"github.com/wfunc/monopoly/game"
	"github.com/wfunc/monopoly/logger"
	"github.com/wfunc/monopoly/monitor"
	"github.com/wfunc/monopoly/network"
	"github.com/wfunc/monopoly/persistence"
	"github.com/wfunc/monopoly/room"
	monopoly_rpc "github.com/wfunc/monopoly/rpc"
	"github.com/wfunc/monopoly/services"
	"github.com/wfunc/monopoly/session"
	"github.com/wfunc/monopoly/state"
	"github.com/wfunc/monopoly/timer"
)

const sweepInterval = 30 * time.Second

type GameServer struct {
	addr           string
	metricsAddr    string
	upgrader       websocket.Upgrader
	roomManager    *room.Manager
	sessionManager *session.Manager
	profileService *services.ProfileService
	dispatcher     *dispatch.Dispatcher
	monitor        *monitor.Monitor
	rpcServer      *monopoly_rpc.Server
	timers         *timer.Manager
	engineFactory  game.Factory
	idleTimeout    time.Duration
	shutdownChan   chan struct{}
}

func NewGameServer(cfg *config.Config, db persistence.Database) *GameServer {
	gameCfg := cfg.Game
	s := &GameServer{
		addr:           cfg.Server.HTTPAddress,
		metricsAddr:    cfg.Server.MetricsAddress,
		roomManager:    room.NewRoomManager(),
		sessionManager: session.NewManager(),
		profileService: services.NewProfileService(db),
		monitor:        monitor.NewMonitor("monopoly"),
		timers:         timer.NewManager(),
		idleTimeout:    time.Duration(gameCfg.RoomIdleSeconds) * time.Second,
		shutdownChan:   make(chan struct{}),
		engineFactory: func() game.Engine {
			return game.NewBoardEngine(gameCfg.BoardSize, gameCfg.MaxPlayers, gameCfg.StartingCash)
		},
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	// 初始化分发器，广播经过延迟统计
	broadcaster := &measuredBroadcaster{
		inner:   broadcast.NewRoomBroadcaster(s.roomManager),
		monitor: s.monitor,
	}
	s.dispatcher = dispatch.New(s.roomManager, s.profileService, broadcaster)

	// 初始化RPC服务器
	rpcServer, err := monopoly_rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	// 注册RPC服务
	adminService := monopoly_rpc.NewAdminService(s.roomManager, s.profileService)
	netrpc.Register(adminService)

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()
	s.monitor.StartServer(s.metricsAddr)
	s.timers.Add(sweepInterval, sweepInterval, s.sweepRooms)

	http.HandleFunc("/ws/game/", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.timers.Stop()
	s.rpcServer.Stop()
}

// handleWebSocket upgrades a connection. The trailing path segment is the
// room id; ?user= names the player (authentication is handled upstream).
func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	fields := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	roomID := fields[len(fields)-1]
	if roomID == "" || roomID == "game" {
		http.Error(w, "missing room id", http.StatusBadRequest)
		return
	}

	username := r.URL.Query().Get("user")
	if username == "" {
		http.Error(w, "missing user", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn, roomID, username)
}

func (s *GameServer) handleConnection(conn *websocket.Conn, roomID, username string) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), username, wsConn)

	gameRoom := s.roomManager.GetOrCreate(roomID, s.engineFactory)
	if err := s.seatPlayer(gameRoom, username); err != nil {
		logger.Log.Warnf("Cannot seat %s in room %s: %v", username, roomID, err)
		wsConn.Close()
		return
	}

	s.sessionManager.Add(sess)
	gameRoom.AddSession(sess)
	s.monitor.IncOnlinePlayers()
	s.monitor.SetActiveRooms(s.roomManager.Count())

	logger.Log.Infof("Player %s joined room %s from %s, session ID: %s",
		username, roomID, wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed for %s in room %s, session ID: %s",
			username, roomID, sess.GetID())
		s.sessionManager.Remove(sess.GetID())
		if empty := gameRoom.RemoveSession(sess.GetID()); empty {
			// 空房间由定时清扫回收，给断线重连留时间
			logger.Log.Infof("Room %s is now empty", roomID)
		}
		s.monitor.DecOnlinePlayers()
		wsConn.Close()
	}()

	if err := s.dispatcher.Connect(roomID); err != nil {
		logger.Log.Errorf("Init broadcast for room %s failed: %v", roomID, err)
	}

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			event, err := wsConn.ReadEvent()
			if err != nil {
				if err == network.ErrBadEvent {
					logger.Log.Warnf("Malformed event from %s in room %s", username, roomID)
					continue
				}
				return
			}
			s.monitor.IncEventsReceived()
			if err := s.dispatcher.HandleEvent(roomID, event.Action); err != nil {
				// rejected events produce no broadcast and leave room state alone
				logger.Log.Warnf("Event %q from %s rejected in room %s: %v",
					event.Action, username, roomID, err)
			}
		}
	}
}

// seatPlayer adds the player to the room's engine; a reconnect of an
// already-seated player is fine.
func (s *GameServer) seatPlayer(r *room.Room, username string) error {
	return r.WithLock(func() error {
		err := r.Engine.AddPlayer(username)
		if err == game.ErrAlreadySeated {
			return nil
		}
		return err
	})
}

// sweepRooms reclaims rooms that stayed empty past the idle timeout and
// refreshes room gauges.
func (s *GameServer) sweepRooms() {
	pending := 0
	for _, r := range s.roomManager.Rooms() {
		if r.Decision.Phase() == state.PhaseAwaitingConfirmation {
			pending++
		}
		if s.idleTimeout > 0 && r.IdleSince() > s.idleTimeout {
			s.archiveRoom(r)
			s.roomManager.Remove(r.ID)
			logger.Log.Infof("Reclaimed idle room %s", r.ID)
		}
	}
	s.monitor.SetPendingDecisions(pending)
	s.monitor.SetActiveRooms(s.roomManager.Count())
}

func (s *GameServer) archiveRoom(r *room.Room) {
	var players []string
	finalCash := make(map[string]int64)

	r.WithLock(func() error {
		players = r.Engine.Players()
		for _, name := range players {
			finalCash[name] = r.Engine.Cash(name)
		}
		return nil
	})

	if len(players) == 0 {
		return
	}
	if err := s.profileService.RecordGame(r.ID, players, finalCash); err != nil {
		logger.Log.Errorf("Failed to archive room %s: %v", r.ID, err)
	}
}

// measuredBroadcaster times room fan-out for the latency histogram.
type measuredBroadcaster struct {
	inner   broadcast.Broadcaster
	monitor *monitor.Monitor
}

func (b *measuredBroadcaster) BroadcastToRoom(roomID string, data []byte) error {
	start := time.Now()
	err := b.inner.BroadcastToRoom(roomID, data)
	b.monitor.ObserveBroadcastLatency(time.Since(start))
	return err
}

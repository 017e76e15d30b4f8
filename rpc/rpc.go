package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/monopoly/logger"
	"github.com/wfunc/monopoly/models"
	"github.com/wfunc/monopoly/room"
	"github.com/wfunc/monopoly/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if the error is due to the listener being closed.
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// AdminService exposes room and player inspection over net/rpc.
type AdminService struct {
	rooms    *room.Manager
	profiles *services.ProfileService
}

// NewAdminService creates a new AdminService.
func NewAdminService(rooms *room.Manager, profiles *services.ProfileService) *AdminService {
	return &AdminService{rooms: rooms, profiles: profiles}
}

type ListRoomsArgs struct{}

type ListRoomsReply struct {
	RoomIDs []string
}

func (as *AdminService) ListRooms(args *ListRoomsArgs, reply *ListRoomsReply) error {
	for _, r := range as.rooms.Rooms() {
		reply.RoomIDs = append(reply.RoomIDs, r.ID)
	}
	return nil
}

type RoomStateArgs struct {
	RoomID string
}

type RoomStateReply struct {
	Players       []string
	CurrentPlayer string
	Phase         string
	Connections   int
}

func (as *AdminService) GetRoomState(args *RoomStateArgs, reply *RoomStateReply) error {
	r, err := as.rooms.Get(args.RoomID)
	if err != nil {
		return err
	}

	return r.WithLock(func() error {
		reply.Players = r.Engine.Players()
		reply.CurrentPlayer = r.Engine.CurrentPlayer()
		reply.Phase = r.Decision.Phase().String()
		reply.Connections = r.SessionCount()
		return nil
	})
}

type PlayerStatsArgs struct {
	Username string
}

type PlayerStatsReply struct {
	Stats *models.PlayerStats
}

func (as *AdminService) GetPlayerStats(args *PlayerStatsArgs, reply *PlayerStatsReply) error {
	stats, err := as.profiles.PlayerStats(args.Username)
	if err != nil {
		return err
	}
	reply.Stats = stats
	return nil
}

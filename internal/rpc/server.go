package rpc

import (
	"io"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"

	"github.com/OpenSysKit/hidhide/internal/service"
)

// ServiceName 注册到 JSON-RPC 的服务名，方法以 "HidHide.Ping" 形式调用。
const ServiceName = "HidHide"

// Validator 在处理连接前校验客户端，返回错误时连接被关闭。
type Validator func(conn net.Conn) error

// Server 封装 JSON-RPC 服务器。
type Server struct {
	rpcServer *rpc.Server
	validate  Validator
	log       *slog.Logger
}

// NewServer 创建 JSON-RPC 服务器并注册服务。validate 可为 nil。
func NewServer(ctl service.Controller, validate Validator, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := rpc.NewServer()

	hh := &service.HidHideService{Ctl: ctl, Logger: logger}
	if err := s.RegisterName(ServiceName, hh); err != nil {
		return nil, err
	}

	return &Server{rpcServer: s, validate: validate, log: logger}, nil
}

// Serve 接受连接并使用 JSON-RPC 处理请求，每个连接一个 goroutine。
func (s *Server) Serve(ln net.Listener) error {
	s.log.Info("JSON-RPC 服务器已就绪", "addr", ln.Addr().String())
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(conn)
	}
}

// ServeConn 在当前 goroutine 中处理单个连接直到其关闭。
func (s *Server) ServeConn(conn net.Conn) {
	s.handleConn(conn)
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	if s.validate != nil {
		if err := s.validate(conn); err != nil {
			s.log.Warn("拒绝管道客户端", "error", err)
			return
		}
	}

	s.log.Debug("新连接", "remote", conn.RemoteAddr().String())
	s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(conn))
	s.log.Debug("连接已关闭", "remote", conn.RemoteAddr().String())
}

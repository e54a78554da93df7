package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"log/slog"

	"tubelens/internal/browser"
	"tubelens/internal/core"
	"tubelens/internal/logging"
	"tubelens/internal/settings"
)

// hostOnlineWindow is how recently the extension host must have polled
// for the daemon to consider it connected.
const hostOnlineWindow = 90 * time.Second

// Server exposes the analysis core via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path. bridge may
// be nil when browser extraction is disabled; the bridge endpoints then
// report no host.
func NewServer(ctx context.Context, path string, analysis *core.Service, store *settings.Store, bridge *browser.Bridge, logger *slog.Logger) (*Server, error) {
	if analysis == nil {
		return nil, errors.New("ipc server requires analysis service")
	}
	if store == nil {
		return nil, errors.New("ipc server requires settings store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{analysis: analysis, store: store, bridge: bridge, socketPath: path, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("TubeLens", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String("impact", "IPC clients may fail to connect"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err))
	}
}

type service struct {
	analysis   *core.Service
	store      *settings.Store
	bridge     *browser.Bridge
	socketPath string
	logger     *slog.Logger
	ctx        context.Context

	// lastPoll holds the unix nanos of the most recent host poll.
	lastPoll atomic.Int64
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String("component", "ipc"))
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	resp.Running = true
	resp.PID = os.Getpid()
	resp.SocketPath = s.socketPath
	if cfg, err := s.store.Snapshot(s.ctx); err == nil {
		resp.Provider = cfg.Provider
	}
	if s.bridge != nil {
		last := s.lastPoll.Load()
		resp.HostOnline = last > 0 && time.Since(time.Unix(0, last)) < hostOnlineWindow
	}
	return nil
}

func (s *service) GetTranscript(req TranscriptRequest, resp *TranscriptResponse) error {
	s.log().Debug("transcript requested", logging.String("video_id", req.VideoID))
	result, err := s.analysis.GetTranscript(s.ctx, req.VideoID)
	if err != nil {
		return err
	}
	resp.Result = *result
	return nil
}

func (s *service) UseManualTranscript(req ManualTranscriptRequest, resp *TranscriptResponse) error {
	s.log().Debug("manual transcript submitted",
		logging.String("video_id", req.VideoID),
		logging.Bool("save_as_default", req.SaveAsDefault))
	result, err := s.analysis.UseManualTranscript(s.ctx, req.VideoID, req.Text, req.SaveAsDefault)
	if err != nil {
		return err
	}
	resp.Result = *result
	return nil
}

func (s *service) AnalyzeComments(req AnalyzeCommentsRequest, resp *AnalyzeCommentsResponse) error {
	s.log().Debug("comment analysis requested", logging.String("video_id", req.VideoID))
	analysis, err := s.analysis.AnalyzeComments(s.ctx, req.VideoID)
	if err != nil {
		return err
	}
	resp.Analysis = *analysis
	return nil
}

func (s *service) Ask(req AskRequest, resp *AskResponse) error {
	s.log().Debug("question requested", logging.String("video_id", req.VideoID))
	answer, err := s.analysis.AnswerQuestion(s.ctx, req.VideoID, req.Query)
	if err != nil {
		return err
	}
	resp.Answer = *answer
	return nil
}

func (s *service) FactCheck(req FactCheckRequest, resp *FactCheckResponse) error {
	s.log().Debug("fact check requested")
	result, err := s.analysis.FactCheck(s.ctx, req.Text)
	if err != nil {
		return err
	}
	resp.Result = *result
	return nil
}

func (s *service) SettingsGet(req SettingsGetRequest, resp *SettingsGetResponse) error {
	value, err := s.store.Get(s.ctx, req.Key)
	if err != nil {
		return err
	}
	resp.Value = value
	return nil
}

func (s *service) SettingsSet(req SettingsSetRequest, _ *SettingsSetResponse) error {
	if err := s.store.Set(s.ctx, req.Key, req.Value); err != nil {
		return err
	}
	s.log().Info("setting updated", logging.String("key", req.Key))
	return nil
}

func (s *service) SettingsUnset(req SettingsUnsetRequest, _ *SettingsUnsetResponse) error {
	if err := s.store.Unset(s.ctx, req.Key); err != nil {
		return err
	}
	s.log().Info("setting reverted to default", logging.String("key", req.Key))
	return nil
}

func (s *service) SettingsList(_ SettingsListRequest, resp *SettingsListResponse) error {
	keys := settings.Keys()
	resp.Values = make(map[string]string, len(keys))
	for _, key := range keys {
		value, err := s.store.Get(s.ctx, key)
		if err != nil {
			return err
		}
		if value != "" && settings.Secret(key) {
			value = "********"
		}
		resp.Values[key] = value
	}
	return nil
}

// BridgeNext hands the extension host its next pending command, holding the
// poll open for up to WaitMillis before returning empty.
func (s *service) BridgeNext(req BridgeNextRequest, resp *BridgeNextResponse) error {
	if s.bridge == nil {
		return nil
	}
	s.lastPoll.Store(time.Now().UnixNano())

	wait := time.Duration(req.WaitMillis) * time.Millisecond
	if wait <= 0 {
		wait = time.Second
	}
	ctx, cancel := context.WithTimeout(s.ctx, wait)
	defer cancel()

	cmd, err := s.bridge.NextCommand(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	resp.Found = true
	resp.Command = cmd
	return nil
}

func (s *service) BridgeResolve(req BridgeResolveRequest, _ *BridgeResolveResponse) error {
	if s.bridge == nil {
		return errors.New("browser bridge not enabled")
	}
	s.lastPoll.Store(time.Now().UnixNano())
	s.bridge.PostResponse(req.Response)
	return nil
}

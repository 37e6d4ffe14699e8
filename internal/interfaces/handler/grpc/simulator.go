package grpc

import (
	"context"
	"encoding/json"
	"strconv"

	"WordDice/internal/app"
	"WordDice/internal/app/model"
	"WordDice/internal/interfaces/handler"

	"github.com/go-viper/mapstructure/v2"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// 服务名与方法。消息体统一用 google.protobuf.Struct，字段与 HTTP JSON 一致；
// seed 以字符串传输，避免 double 丢精度。
const (
	ServiceName      = "worddice.v1.Simulator"
	BattleMethod     = "/" + ServiceName + "/Battle"
	TournamentMethod = "/" + ServiceName + "/Tournament"
)

type SimulatorServer interface {
	Battle(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Tournament(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

func RegisterSimulatorServer(s gogrpc.ServiceRegistrar, srv SimulatorServer) {
	s.RegisterService(&simulatorServiceDesc, srv)
}

var simulatorServiceDesc = gogrpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SimulatorServer)(nil),
	Methods: []gogrpc.MethodDesc{
		{MethodName: "Battle", Handler: battleHandler},
		{MethodName: "Tournament", Handler: tournamentHandler},
	},
	Streams:  []gogrpc.StreamDesc{},
	Metadata: "worddice/v1/simulator.proto",
}

func battleHandler(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SimulatorServer).Battle(ctx, in)
	}
	info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: BattleMethod}
	h := func(ctx context.Context, req any) (any, error) {
		return srv.(SimulatorServer).Battle(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, h)
}

func tournamentHandler(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SimulatorServer).Tournament(ctx, in)
	}
	info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: TournamentMethod}
	h := func(ctx context.Context, req any) (any, error) {
		return srv.(SimulatorServer).Tournament(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, h)
}

// GrpcHandler 实现 SimulatorServer。
type GrpcHandler struct {
	sim *handler.Simulator
}

var _ SimulatorServer = (*GrpcHandler)(nil)

func NewGrpcHandler(s *handler.Simulator) *GrpcHandler {
	return &GrpcHandler{sim: s}
}

func (h *GrpcHandler) Battle(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req model.BattleReq
	if err := fromStruct(in, &req); err != nil {
		return nil, handler.ToRPCError(invalidBody(err))
	}
	resp, err := h.sim.Service.Battle(ctx, req, nil)
	if err != nil {
		h.sim.HandleError(ctx, "grpc battle", err)
		return nil, handler.ToRPCError(err)
	}
	return toStruct(resp)
}

func (h *GrpcHandler) Tournament(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req model.TournamentReq
	if err := fromStruct(in, &req); err != nil {
		return nil, handler.ToRPCError(invalidBody(err))
	}
	resp, err := h.sim.Service.Tournament(ctx, req)
	if err != nil {
		h.sim.HandleError(ctx, "grpc tournament", err)
		return nil, handler.ToRPCError(err)
	}
	return toStruct(resp)
}

func invalidBody(err error) error {
	return app.ErrInvalidParam.WithData("body", err.Error())
}

// fromStruct 走 mapstructure 弱类型解码：seed 可以是数字或字符串。
func fromStruct(in *structpb.Struct, dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in.AsMap())
}

func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

// SimulatorClient 是手写的客户端桩，sim CLI 的 --remote 模式使用。
type SimulatorClient struct {
	cc gogrpc.ClientConnInterface
}

func NewSimulatorClient(cc gogrpc.ClientConnInterface) *SimulatorClient {
	return &SimulatorClient{cc: cc}
}

func (c *SimulatorClient) Battle(ctx context.Context, req model.BattleReq) (*model.BattleResp, error) {
	out := &model.BattleResp{}
	if err := c.call(ctx, BattleMethod, req, req.Seed, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SimulatorClient) Tournament(ctx context.Context, req model.TournamentReq) (*model.TournamentResp, error) {
	out := &model.TournamentResp{}
	if err := c.call(ctx, TournamentMethod, req, req.Seed, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SimulatorClient) call(ctx context.Context, method string, req any, seed *uint64, out any) error {
	in, err := toStruct(req)
	if err != nil {
		return err
	}
	if seed != nil {
		in.Fields["seed"] = structpb.NewStringValue(strconv.FormatUint(*seed, 10))
	}
	reply := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, reply); err != nil {
		return err
	}
	raw, err := protojson.Marshal(reply)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

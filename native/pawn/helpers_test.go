package pawn

import (
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"pawnpool/core/events"
)

var errFakeTransfer = errors.New("fake transfer rejected")

type assetCall struct {
	addr   common.Address
	amount *big.Int
}

type fakeAsset struct {
	mu       sync.Mutex
	failIn   bool
	failOut  bool
	inCalls  []assetCall
	outCalls []assetCall
}

func (f *fakeAsset) TransferIn(from common.Address, amount *big.Int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIn {
		return errFakeTransfer
	}
	f.inCalls = append(f.inCalls, assetCall{addr: from, amount: new(big.Int).Set(amount)})
	return nil
}

func (f *fakeAsset) TransferOut(to common.Address, amount *big.Int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOut {
		return errFakeTransfer
	}
	f.outCalls = append(f.outCalls, assetCall{addr: to, amount: new(big.Int).Set(amount)})
	return nil
}

func (f *fakeAsset) Allowance(common.Address, common.Address) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), 128)
}

type fakeCustody struct {
	mu          sync.Mutex
	failTake    bool
	failRelease bool
	holders     map[string]common.Address
	poolHeld    map[string]bool
}

func newFakeCustody() *fakeCustody {
	return &fakeCustody{
		holders:  make(map[string]common.Address),
		poolHeld: make(map[string]bool),
	}
}

func (f *fakeCustody) TakeCustody(owner common.Address, assetID *big.Int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTake {
		return errFakeTransfer
	}
	f.holders[assetID.String()] = owner
	f.poolHeld[assetID.String()] = true
	return nil
}

func (f *fakeCustody) ReleaseCustody(to common.Address, assetID *big.Int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRelease {
		return errFakeTransfer
	}
	f.holders[assetID.String()] = to
	f.poolHeld[assetID.String()] = false
	return nil
}

func (f *fakeCustody) OwnerOf(assetID *big.Int) (common.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.holders[assetID.String()], nil
}

func (f *fakeCustody) held(assetID *big.Int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.poolHeld[assetID.String()]
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingEmitter) Emit(evt events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recordingEmitter) byType(eventType string) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, evt := range r.events {
		if evt.EventType() == eventType {
			out = append(out, evt)
		}
	}
	return out
}

func makeAddress(suffix byte) common.Address {
	var addr common.Address
	addr[common.AddressLength-1] = suffix
	return addr
}

type testEnv struct {
	engine  *Engine
	asset   *fakeAsset
	custody *fakeCustody
	emitter *recordingEmitter
	owner   common.Address
}

func newTestEnv(params Params) *testEnv {
	env := &testEnv{
		asset:   &fakeAsset{},
		custody: newFakeCustody(),
		emitter: &recordingEmitter{},
		owner:   makeAddress(0x01),
	}
	env.engine = NewEngine(env.owner, params)
	env.engine.SetAsset(env.asset)
	env.engine.SetCustody(env.custody)
	env.engine.SetEmitter(env.emitter)
	return env
}

// pusd converts whole pool-asset units into the 6-decimal smallest unit.
func pusd(units int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(units), big.NewInt(1_000_000))
}

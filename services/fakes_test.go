package services

import (
	"context"
	"sort"
	"sync"

	"github.com/esportsfed/platform/models"
	"github.com/esportsfed/platform/repositories"
)

// In-memory repository fakes. They keep the same conditional-update
// semantics as the postgres implementations (zero rows affected maps to
// the same sentinel errors), so service-level invariants can be tested
// without a database.

type fakeTxRunner struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeTxRunner) RunInTx(ctx context.Context, fn func(repositories.SQLExecutor) error) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return fn(nil)
}

type fakeChampionshipRepo struct {
	championships map[int]*models.Championship
	nextID        int
}

func newFakeChampionshipRepo() *fakeChampionshipRepo {
	return &fakeChampionshipRepo{championships: make(map[int]*models.Championship), nextID: 1}
}

func (f *fakeChampionshipRepo) add(c *models.Championship) *models.Championship {
	if c.ID == 0 {
		c.ID = f.nextID
		f.nextID++
	}
	f.championships[c.ID] = c
	return c
}

func (f *fakeChampionshipRepo) Create(ctx context.Context, exec repositories.SQLExecutor, c *models.Championship) error {
	for _, existing := range f.championships {
		if existing.Slug == c.Slug {
			return repositories.ErrChampionshipSlugConflict
		}
	}
	f.add(c)
	return nil
}

func (f *fakeChampionshipRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Championship, error) {
	c, ok := f.championships[id]
	if !ok {
		return nil, repositories.ErrChampionshipNotFound
	}
	return c, nil
}

func (f *fakeChampionshipRepo) GetBySlug(ctx context.Context, exec repositories.SQLExecutor, slug string) (*models.Championship, error) {
	for _, c := range f.championships {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, repositories.ErrChampionshipNotFound
}

func (f *fakeChampionshipRepo) List(ctx context.Context, exec repositories.SQLExecutor, limit, offset int) ([]models.Championship, error) {
	out := make([]models.Championship, 0, len(f.championships))
	for _, c := range f.championships {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeChampionshipRepo) Update(ctx context.Context, exec repositories.SQLExecutor, c *models.Championship) error {
	if _, ok := f.championships[c.ID]; !ok {
		return repositories.ErrChampionshipNotFound
	}
	f.championships[c.ID] = c
	return nil
}

func (f *fakeChampionshipRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.ChampionshipStatus) error {
	c, ok := f.championships[id]
	if !ok {
		return repositories.ErrChampionshipNotFound
	}
	c.Status = status
	return nil
}

func (f *fakeChampionshipRepo) IncrementSlotsFilled(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	c, ok := f.championships[id]
	if !ok {
		return repositories.ErrChampionshipNotFound
	}
	if c.SlotsFilled >= c.SlotsTotal {
		return repositories.ErrChampionshipFull
	}
	c.SlotsFilled++
	return nil
}

func (f *fakeChampionshipRepo) UpdateLogoKey(ctx context.Context, exec repositories.SQLExecutor, id int, logoKey *string) error {
	c, ok := f.championships[id]
	if !ok {
		return repositories.ErrChampionshipNotFound
	}
	c.LogoKey = logoKey
	return nil
}

func (f *fakeChampionshipRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := f.championships[id]; !ok {
		return repositories.ErrChampionshipNotFound
	}
	delete(f.championships, id)
	return nil
}

type fakeTeamRepo struct {
	teams  map[int]*models.Team
	nextID int
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[int]*models.Team), nextID: 1}
}

func (f *fakeTeamRepo) add(t *models.Team) *models.Team {
	if t.ID == 0 {
		t.ID = f.nextID
		f.nextID++
	}
	f.teams[t.ID] = t
	return t
}

func (f *fakeTeamRepo) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	for _, existing := range f.teams {
		if existing.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	f.add(team)
	return nil
}

func (f *fakeTeamRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Team, error) {
	t, ok := f.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return t, nil
}

func (f *fakeTeamRepo) GetBySlug(ctx context.Context, exec repositories.SQLExecutor, slug string) (*models.Team, error) {
	for _, t := range f.teams {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

// GetAll returns teams in ID order, matching the postgres ORDER BY.
func (f *fakeTeamRepo) GetAll(ctx context.Context, exec repositories.SQLExecutor) ([]*models.Team, error) {
	out := make([]*models.Team, 0, len(f.teams))
	for _, t := range f.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTeamRepo) Update(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	if _, ok := f.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	f.teams[team.ID] = team
	return nil
}

func (f *fakeTeamRepo) UpdateRecord(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	stored, ok := f.teams[team.ID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	stored.Wins = team.Wins
	stored.Losses = team.Losses
	stored.Draws = team.Draws
	stored.Points = team.Points
	return nil
}

func (f *fakeTeamRepo) UpdateRanks(ctx context.Context, exec repositories.SQLExecutor, teams []*models.Team) error {
	for _, team := range teams {
		stored, ok := f.teams[team.ID]
		if !ok {
			return repositories.ErrTeamNotFound
		}
		stored.RankPosition = team.RankPosition
		stored.PreviousRankPosition = team.PreviousRankPosition
	}
	return nil
}

func (f *fakeTeamRepo) UpdateLogoKey(ctx context.Context, exec repositories.SQLExecutor, id int, logoKey *string) error {
	t, ok := f.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.LogoKey = logoKey
	return nil
}

func (f *fakeTeamRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := f.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(f.teams, id)
	return nil
}

type fakeRegistrationRepo struct {
	registrations map[int]*models.Registration
	nextID        int
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{registrations: make(map[int]*models.Registration), nextID: 1}
}

func (f *fakeRegistrationRepo) add(r *models.Registration) *models.Registration {
	if r.ID == 0 {
		r.ID = f.nextID
		f.nextID++
	}
	f.registrations[r.ID] = r
	return r
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, exec repositories.SQLExecutor, reg *models.Registration) error {
	for _, existing := range f.registrations {
		if existing.ChampionshipID == reg.ChampionshipID && existing.TeamID == reg.TeamID {
			return repositories.ErrRegistrationConflict
		}
	}
	f.add(reg)
	return nil
}

func (f *fakeRegistrationRepo) FindByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Registration, error) {
	r, ok := f.registrations[id]
	if !ok {
		return nil, repositories.ErrRegistrationNotFound
	}
	return r, nil
}

func (f *fakeRegistrationRepo) FindByChampionshipAndTeam(ctx context.Context, exec repositories.SQLExecutor, championshipID, teamID int) (*models.Registration, error) {
	for _, r := range f.registrations {
		if r.ChampionshipID == championshipID && r.TeamID == teamID {
			return r, nil
		}
	}
	return nil, repositories.ErrRegistrationNotFound
}

func (f *fakeRegistrationRepo) ListByChampionship(ctx context.Context, exec repositories.SQLExecutor, championshipID int, statusFilter *models.RegistrationStatus) ([]*models.Registration, error) {
	out := make([]*models.Registration, 0)
	for _, r := range f.registrations {
		if r.ChampionshipID != championshipID {
			continue
		}
		if statusFilter != nil && r.Status != *statusFilter {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRegistrationRepo) UpdateStatusIfPending(ctx context.Context, exec repositories.SQLExecutor, id int, status models.RegistrationStatus, rejectReason *string) error {
	r, ok := f.registrations[id]
	if !ok {
		return repositories.ErrRegistrationNotFound
	}
	if r.Status != models.RegistrationPending {
		return repositories.ErrRegistrationNotPending
	}
	r.Status = status
	r.RejectReason = rejectReason
	return nil
}

func (f *fakeRegistrationRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := f.registrations[id]; !ok {
		return repositories.ErrRegistrationNotFound
	}
	delete(f.registrations, id)
	return nil
}

type fakeMatchRepo struct {
	matches map[int]*models.Match
	nextID  int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]*models.Match), nextID: 1}
}

func (f *fakeMatchRepo) add(m *models.Match) *models.Match {
	if m.ID == 0 {
		m.ID = f.nextID
		f.nextID++
	}
	f.matches[m.ID] = m
	return m
}

func (f *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	if match.TeamAID == match.TeamBID {
		return repositories.ErrMatchSameTeam
	}
	f.add(match)
	return nil
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return m, nil
}

func (f *fakeMatchRepo) ListByChampionship(ctx context.Context, exec repositories.SQLExecutor, championshipID int, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, m := range f.matches {
		if m.ChampionshipID != championshipID {
			continue
		}
		if statusFilter != nil && m.Status != *statusFilter {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeMatchRepo) Finalize(ctx context.Context, exec repositories.SQLExecutor, id, scoreA, scoreB int, winnerTeamID *int) error {
	m, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if m.Status == models.MatchFinished || m.Status == models.MatchCanceled {
		return repositories.ErrMatchNotSettleable
	}
	m.ScoreA = &scoreA
	m.ScoreB = &scoreB
	m.WinnerTeamID = winnerTeamID
	m.Status = models.MatchFinished
	return nil
}

func (f *fakeMatchRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, from []models.MatchStatus, to models.MatchStatus) error {
	m, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	for _, s := range from {
		if m.Status == s {
			m.Status = to
			return nil
		}
	}
	return repositories.ErrMatchNotSettleable
}

func (f *fakeMatchRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := f.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(f.matches, id)
	return nil
}

type fakeProductRepo struct {
	products map[int]*models.Product
	nextID   int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[int]*models.Product), nextID: 1}
}

func (f *fakeProductRepo) add(p *models.Product) *models.Product {
	if p.ID == 0 {
		p.ID = f.nextID
		f.nextID++
	}
	f.products[p.ID] = p
	return p
}

func (f *fakeProductRepo) Create(ctx context.Context, product *models.Product) error {
	f.add(product)
	return nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repositories.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) List(ctx context.Context, limit, offset int) ([]models.Product, error) {
	out := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, product *models.Product) error {
	if _, ok := f.products[product.ID]; !ok {
		return repositories.ErrProductNotFound
	}
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) DecrementStock(ctx context.Context, exec repositories.SQLExecutor, id, qty int) error {
	p, ok := f.products[id]
	if !ok {
		return repositories.ErrProductNotFound
	}
	if p.Stock < qty {
		return repositories.ErrProductOutOfStock
	}
	p.Stock -= qty
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id int) error {
	if _, ok := f.products[id]; !ok {
		return repositories.ErrProductNotFound
	}
	delete(f.products, id)
	return nil
}

type fakeOrderRepo struct {
	orders map[int]*models.Order
	nextID int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[int]*models.Order), nextID: 1}
}

func (f *fakeOrderRepo) Create(ctx context.Context, exec repositories.SQLExecutor, order *models.Order) error {
	order.ID = f.nextID
	f.nextID++
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id int) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, repositories.ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeOrderRepo) ListByUser(ctx context.Context, userID int) ([]models.Order, error) {
	out := make([]models.Order, 0)
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []interface{}
}

func (b *recordingBroadcaster) BroadcastToRoom(roomID string, message interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, message)
}

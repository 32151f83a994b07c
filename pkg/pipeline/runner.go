package pipeline

import (
	"context"
	"image"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/statuscard/pkg/cache"
	"github.com/matzehuels/statuscard/pkg/errors"
	"github.com/matzehuels/statuscard/pkg/profile"
	"github.com/matzehuels/statuscard/pkg/roster"
	"github.com/matzehuels/statuscard/pkg/steam"
	"github.com/matzehuels/statuscard/pkg/store"
	"github.com/matzehuels/statuscard/pkg/text"
)

// Runner encapsulates card rendering with caching.
// Both CLI and API use this to avoid duplicating fetch and cache logic.
//
// The Runner holds no per-render state; multiple goroutines can safely
// share one Runner.
type Runner struct {
	Cache  cache.Cache
	Client *steam.Client
	Store  store.Store
	Fonts  text.Source
	Logger *log.Logger

	// Rand seeds the palette jitter; nil means time-seeded (the composer's
	// default). Tests inject a fixed seed for reproducible output.
	Rand *rand.Rand

	// Assets decorates roster cards; zero value renders without badges.
	Assets roster.Assets

	// TTL for cached renders; 0 means DefaultRenderTTL.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables render caching and a
// nil logger falls back to log.Default(). Client, store and fonts are
// required by the entry points that use them.
func NewRunner(c cache.Cache, client *steam.Client, st store.Store, fonts text.Source, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Client: client,
		Store:  st,
		Fonts:  fonts,
		Logger: logger,
		TTL:    DefaultRenderTTL,
	}
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return DefaultRenderTTL
}

// RenderProfile renders the full status card for one player.
func (r *Runner) RenderProfile(ctx context.Context, opts ProfileOptions) (*Result, error) {
	id, err := steam.ResolveID(opts.ID)
	if err != nil {
		return nil, err
	}

	fetchStart := time.Now()
	data, err := r.Client.FetchProfile(ctx, id, steam.Defaults{})
	if err != nil {
		return nil, err
	}
	result := &Result{}
	result.Stats.FetchTime = time.Since(fetchStart)

	r.Logger.Info("fetched profile",
		"steamid", data.SteamID,
		"titles", len(data.Games),
		"duration", result.Stats.FetchTime)

	key := cache.Key("render:profile", data)
	if !opts.Refresh {
		if png, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			result.PNG, result.CacheHit = png, true
			return result, nil
		}
	}

	composeStart := time.Now()
	img, err := profile.NewComposer(r.Fonts, r.Rand).Render(r.buildProfile(id, data))
	if err != nil {
		return nil, err
	}
	result.Stats.ComposeTime = time.Since(composeStart)

	if result.PNG, err = r.finish(ctx, key, img, result); err != nil {
		return nil, err
	}
	r.Logger.Info("rendered profile card",
		"steamid", data.SteamID,
		"compose", result.Stats.ComposeTime,
		"encode", result.Stats.EncodeTime)
	return result, nil
}

// buildProfile converts scraped community data into the composer's input,
// decoding images and substituting generated stand-ins for data gaps.
func (r *Runner) buildProfile(id uint64, data *steam.ProfileData) profile.Profile {
	background := decodeImage(data.Background)
	if background == nil {
		background = defaultBackground()
	}
	avatar := decodeImage(data.Avatar)
	if avatar == nil {
		avatar = defaultAvatar()
	}

	titles := make([]profile.TitleActivity, 0, len(data.Games))
	for _, g := range data.Games {
		t := profile.TitleActivity{
			Title:      g.Name,
			Header:     decodeImage(g.Header),
			LastPlayed: g.LastPlayed,
		}
		if g.PlaytimeHours != "" {
			t.TotalPlaytime = g.PlaytimeHours + " 小时"
		}
		for _, a := range g.Achievements {
			t.Achievements = append(t.Achievements, profile.Achievement{
				Name: a.Name,
				Icon: decodeImage(a.Icon),
			})
		}
		if g.HasCounts {
			t.Counts = &profile.AchievementCounts{Completed: g.Completed, Total: g.Total}
		}
		titles = append(titles, t)
	}

	return profile.Profile{
		Name:        data.Name,
		ID:          steam.FriendCode(id),
		Bio:         data.Summary,
		Avatar:      avatar,
		Background:  background,
		RecentLabel: data.RecentPlaytime,
		Titles:      titles,
	}
}

// RenderRoster renders the friends-list card for one group from its stored
// bindings.
func (r *Runner) RenderRoster(ctx context.Context, opts RosterOptions) (*Result, error) {
	bindings, err := r.Store.Bindings(ctx, opts.ParentID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load bindings")
	}
	if len(bindings) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "no bindings for group %s", opts.ParentID)
	}

	nicknames := make(map[string]string, len(bindings))
	ids := make([]string, 0, len(bindings))
	for _, b := range bindings {
		id, err := steam.ResolveID(b.SteamID)
		if err != nil {
			r.Logger.Warn("skipping invalid binding", "user", b.UserID, "steam_id", b.SteamID)
			continue
		}
		sid := strconv.FormatUint(id, 10)
		ids = append(ids, sid)
		nicknames[sid] = b.Nickname
	}

	fetchStart := time.Now()
	players, err := r.Client.PlayerSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	key := cache.Key("render:roster", opts.ParentID, players, nicknames)
	if !opts.Refresh {
		if png, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			result.PNG, result.CacheHit = png, true
			return result, nil
		}
	}

	people := r.buildPeople(ctx, players, nicknames)
	result.Stats.FetchTime = time.Since(fetchStart)

	parentAvatar, parentName := r.parentHeader(ctx, opts.ParentID)

	composeStart := time.Now()
	img, err := roster.NewRenderer(r.Fonts, r.Assets).Render(parentAvatar, parentName, people)
	if err != nil {
		return nil, err
	}
	result.Stats.ComposeTime = time.Since(composeStart)

	if result.PNG, err = r.finish(ctx, key, img, result); err != nil {
		return nil, err
	}
	r.Logger.Info("rendered roster card",
		"parent", opts.ParentID,
		"members", len(people),
		"fetch", result.Stats.FetchTime,
		"compose", result.Stats.ComposeTime)
	return result, nil
}

// buildPeople converts player summaries into roster records, fetching
// avatars concurrently.
func (r *Runner) buildPeople(ctx context.Context, players []steam.Player, nicknames map[string]string) []roster.Person {
	now := time.Now()
	people := make([]roster.Person, len(players))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultConcurrency)
	for i, p := range players {
		i, p := i, p
		g.Go(func() error {
			avatar := decodeImage(r.Client.FetchImage(gctx, p.AvatarFull, nil))
			if avatar == nil {
				avatar = defaultAvatar()
			}
			people[i] = roster.Person{
				ID:       p.SteamID,
				Avatar:   avatar,
				Name:     p.PersonaName,
				Nickname: nicknames[p.SteamID],
				Status:   steam.StatusText(p.PersonaState, p.GameExtraInfo, p.LastLogoff, now),
				State:    personaState(p.PersonaState),
			}
			return nil
		})
	}
	_ = g.Wait() // workers only report via people; fetch failures fall back

	return people
}

// RenderNotice renders the small gaming-start banner for one player.
// Notices are event-driven and always rendered fresh.
func (r *Runner) RenderNotice(ctx context.Context, opts NoticeOptions) (*Result, error) {
	id, err := steam.ResolveID(opts.ID)
	if err != nil {
		return nil, err
	}
	sid := strconv.FormatUint(id, 10)

	fetchStart := time.Now()
	players, err := r.Client.PlayerSummaries(ctx, []string{sid})
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "player not found: %s", sid)
	}
	player := players[0]
	if player.GameExtraInfo == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "player is not in a game")
	}

	nickname := ""
	if opts.ParentID != "" && r.Store != nil {
		if bindings, err := r.Store.Bindings(ctx, opts.ParentID); err == nil {
			for _, b := range bindings {
				if bid, err := steam.ResolveID(b.SteamID); err == nil && strconv.FormatUint(bid, 10) == sid {
					nickname = b.Nickname
					break
				}
			}
		}
	}

	avatar := decodeImage(r.Client.FetchImage(ctx, player.AvatarFull, nil))
	if avatar == nil {
		avatar = defaultAvatar()
	}

	result := &Result{}
	result.Stats.FetchTime = time.Since(fetchStart)

	composeStart := time.Now()
	img, err := roster.NewRenderer(r.Fonts, r.Assets).StartGamingNotice(avatar, player.PersonaName, nickname, player.GameExtraInfo)
	if err != nil {
		return nil, err
	}
	result.Stats.ComposeTime = time.Since(composeStart)

	encodeStart := time.Now()
	result.PNG, err = encodePNG(img)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode notice png")
	}
	result.Stats.EncodeTime = time.Since(encodeStart)

	r.Logger.Info("rendered gaming notice",
		"steamid", sid,
		"title", player.GameExtraInfo)
	return result, nil
}

// RenderProfiles renders several profile cards concurrently, bounded at
// DefaultConcurrency. The result map holds only the successful renders;
// the first error aborts the remaining work.
func (r *Runner) RenderProfiles(ctx context.Context, ids []string) (map[string]*Result, error) {
	results := make(map[string]*Result, len(ids))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultConcurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			res, err := r.RenderProfile(gctx, ProfileOptions{ID: id})
			if err != nil {
				return err
			}
			mu.Lock()
			results[id] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// finish encodes the image and stores it in the render cache.
func (r *Runner) finish(ctx context.Context, key string, img image.Image, result *Result) ([]byte, error) {
	encodeStart := time.Now()
	png, err := encodePNG(img)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	result.Stats.EncodeTime = time.Since(encodeStart)

	if err := r.Cache.Set(ctx, key, png, r.ttl()); err != nil {
		r.Logger.Debug("render cache write failed", "error", err)
	}
	return png, nil
}

// parentHeader resolves the stored group metadata into the roster header
// inputs, tolerating missing records.
func (r *Runner) parentHeader(ctx context.Context, parentID string) (image.Image, string) {
	name := parentID
	var avatar image.Image

	if r.Store == nil {
		return nil, name
	}
	parent, err := r.Store.Parent(ctx, parentID)
	if err != nil || parent == nil {
		return nil, name
	}
	if parent.Name != "" {
		name = parent.Name
	}
	if parent.Avatar != "" {
		avatar = decodeImage(r.loadRef(ctx, parent.Avatar))
	}
	return avatar, name
}

// loadRef loads image bytes from a URL or a local path.
func (r *Runner) loadRef(ctx context.Context, ref string) []byte {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return r.Client.FetchImage(ctx, ref, nil)
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		r.Logger.Warn("parent avatar unreadable", "path", ref, "error", err)
		return nil
	}
	return data
}

// personaState clamps the upstream numeric state into the known range;
// anything unknown renders as offline.
func personaState(state int) roster.PersonaState {
	if state < int(roster.Offline) || state > int(roster.LookingToPlay) {
		return roster.Offline
	}
	return roster.PersonaState(state)
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

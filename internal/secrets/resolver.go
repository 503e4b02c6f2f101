package secrets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	pkgsecrets "github.com/Checker-Finance/league-client/pkg/secrets"
)

const secretSuffix = "league"

// CredentialsResolver looks up per-profile league logins in a secrets
// provider and caches them locally.
//
// Secret naming convention: {env}/{profile}/league
type CredentialsResolver struct {
	logger   *zap.Logger
	env      string
	provider pkgsecrets.Provider
	cache    *pkgsecrets.Cache[pkgsecrets.Credentials]
}

func NewCredentialsResolver(
	logger *zap.Logger,
	env string,
	provider pkgsecrets.Provider,
	cache *pkgsecrets.Cache[pkgsecrets.Credentials],
) *CredentialsResolver {
	return &CredentialsResolver{
		logger:   logger,
		env:      env,
		provider: provider,
		cache:    cache,
	}
}

func (r *CredentialsResolver) secretName(profile string) string {
	return strings.ToLower(fmt.Sprintf("%s/%s/%s", r.env, profile, secretSuffix))
}

// Resolve returns the credentials for profile, from cache when possible.
func (r *CredentialsResolver) Resolve(ctx context.Context, profile string) (pkgsecrets.Credentials, error) {
	name := r.secretName(profile)
	if creds, ok := r.cache.Get(name); ok {
		return creds, nil
	}

	secretMap, err := r.provider.GetSecret(ctx, name)
	if err != nil {
		r.logger.Warn("aws.secret_fetch_failed",
			zap.String("key", name),
			zap.Error(err))
		return pkgsecrets.Credentials{}, fmt.Errorf("resolve credentials for %q: %w", profile, err)
	}

	creds, err := pkgsecrets.CredentialsFromMap(secretMap)
	if err != nil {
		return pkgsecrets.Credentials{}, fmt.Errorf("parse secret %q: %w", name, err)
	}
	r.cache.Put(name, creds)

	r.logger.Info("aws.credentials_resolved", zap.String("profile", profile))
	return creds, nil
}

// Invalidate drops the cached credentials for profile.
func (r *CredentialsResolver) Invalidate(profile string) {
	r.cache.Bust(r.secretName(profile))
}

// DiscoverProfiles lists profiles that have league credentials configured,
// i.e. secrets named "{env}/{profile}/league".
func (r *CredentialsResolver) DiscoverProfiles(ctx context.Context) ([]string, error) {
	prefix := strings.ToLower(r.env + "/")
	suffix := "/" + secretSuffix

	names, err := r.provider.ListSecrets(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("discover profiles: %w", err)
	}

	var profiles []string
	for _, name := range names {
		lower := strings.ToLower(name)
		if !strings.HasPrefix(lower, prefix) || !strings.HasSuffix(lower, suffix) {
			continue
		}
		p := strings.TrimSuffix(strings.TrimPrefix(lower, prefix), suffix)
		if p != "" && !strings.Contains(p, "/") {
			profiles = append(profiles, p)
		}
	}

	r.logger.Info("aws.profiles_discovered", zap.Int("count", len(profiles)))
	return profiles, nil
}

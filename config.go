package sitefeeds

import "github.com/goliatone/go-site-feeds/internal/runtimeconfig"

var (
	ErrSiteBaseURLRequired        = runtimeconfig.ErrSiteBaseURLRequired
	ErrContentDirRequired         = runtimeconfig.ErrContentDirRequired
	ErrCollectionNameRequired     = runtimeconfig.ErrCollectionNameRequired
	ErrCollectionDuplicate        = runtimeconfig.ErrCollectionDuplicate
	ErrFeedNameRequired           = runtimeconfig.ErrFeedNameRequired
	ErrFeedDuplicate              = runtimeconfig.ErrFeedDuplicate
	ErrFeedCollectionUnknown      = runtimeconfig.ErrFeedCollectionUnknown
	ErrFeedLimitInvalid           = runtimeconfig.ErrFeedLimitInvalid
	ErrInvalidDatePolicy          = runtimeconfig.ErrInvalidDatePolicy
	ErrConcurrencyInvalid         = runtimeconfig.ErrConcurrencyInvalid
	ErrMarkdownEngineUnknown      = runtimeconfig.ErrMarkdownEngineUnknown
	ErrGeneratorOutputDirRequired = runtimeconfig.ErrGeneratorOutputDirRequired
	ErrServerAddrRequired         = runtimeconfig.ErrServerAddrRequired
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	SiteConfig           = runtimeconfig.SiteConfig
	ContentConfig        = runtimeconfig.ContentConfig
	CollectionConfig     = runtimeconfig.CollectionConfig
	FeedsConfig          = runtimeconfig.FeedsConfig
	FeedDefinition       = runtimeconfig.FeedDefinition
	SitemapConfig        = runtimeconfig.SitemapConfig
	SitemapPage          = runtimeconfig.SitemapPage
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	CacheConfig          = runtimeconfig.CacheConfig
	ServerConfig         = runtimeconfig.ServerConfig
	GeneratorConfig      = runtimeconfig.GeneratorConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
	Features             = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

package userstream

// UserID is the numerical ID of a user.
type UserID int64

// WithheldScope indicates whether withheld content is a status or a user.
type WithheldScope string

const (
	WithheldStatus WithheldScope = "status"
	WithheldUser   WithheldScope = "user"
)

// User is a user profile as delivered in stream messages. It is used for
// both the target and the source of an Event.
type User struct {
	ID         UserID `json:"id"`
	ScreenName string `json:"screen_name"`
	Name       string `json:"name"`

	// Description is the user-defined string describing their account.
	Description *string `json:"description"`
	Location    *string `json:"location"`
	URL         *string `json:"url"`
	Lang        string  `json:"lang"`
	TimeZone    *string `json:"time_zone"`
	// UTCOffset is the offset from UTC in seconds.
	UTCOffset *int64 `json:"utc_offset"`

	CreatedAt Timestamp `json:"created_at"`

	ContributorsEnabled bool `json:"contributors_enabled"`
	DefaultProfile      bool `json:"default_profile"`
	DefaultProfileImage bool `json:"default_profile_image"`
	GeoEnabled          bool `json:"geo_enabled"`
	IsTranslator        bool `json:"is_translator"`
	Protected           bool `json:"protected"`
	Verified            bool `json:"verified"`

	// FollowRequestSent is perspectival: set when the authenticating user
	// has issued a follow request to this protected account.
	FollowRequestSent *bool `json:"follow_request_sent"`

	// FavouritesCount keeps the British spelling used by the API.
	FavouritesCount uint64 `json:"favourites_count"`
	FollowersCount  uint64 `json:"followers_count"`
	FriendsCount    uint64 `json:"friends_count"`
	ListedCount     uint64 `json:"listed_count"`
	StatusesCount   uint64 `json:"statuses_count"`

	ProfileBackgroundColor         string  `json:"profile_background_color"`
	ProfileBackgroundImageURL      string  `json:"profile_background_image_url"`
	ProfileBackgroundImageURLHTTPS string  `json:"profile_background_image_url_https"`
	ProfileBackgroundTile          bool    `json:"profile_background_tile"`
	ProfileBannerURL               *string `json:"profile_banner_url"`
	ProfileImageURL                string  `json:"profile_image_url"`
	ProfileImageURLHTTPS           string  `json:"profile_image_url_https"`
	ProfileLinkColor               string  `json:"profile_link_color"`
	ProfileSidebarBorderColor      string  `json:"profile_sidebar_border_color"`
	ProfileSidebarFillColor        string  `json:"profile_sidebar_fill_color"`
	ProfileTextColor               string  `json:"profile_text_color"`
	ProfileUseBackgroundImage      bool    `json:"profile_use_background_image"`

	// WithheldInCountries is a textual list of two-letter country codes
	// the user is withheld from.
	WithheldInCountries *string        `json:"withheld_in_countries"`
	WithheldScope       *WithheldScope `json:"withheld_scope"`
}

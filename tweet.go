package userstream

// TweetID is the numerical ID of a tweet.
type TweetID int64

// Tweet is the payload of favorite, unfavorite and quoted_tweet events.
type Tweet struct {
	ID        TweetID   `json:"id"`
	CreatedAt Timestamp `json:"created_at"`
	Text      string    `json:"text"`
	Source    string    `json:"source"`
	Truncated bool      `json:"truncated"`
	Lang      *string   `json:"lang"`
	User      *User     `json:"user"`

	InReplyToStatusID   *TweetID `json:"in_reply_to_status_id"`
	InReplyToUserID     *UserID  `json:"in_reply_to_user_id"`
	InReplyToScreenName *string  `json:"in_reply_to_screen_name"`

	IsQuoteStatus   bool     `json:"is_quote_status"`
	QuotedStatusID  *TweetID `json:"quoted_status_id"`
	QuotedStatus    *Tweet   `json:"quoted_status"`
	RetweetedStatus *Tweet   `json:"retweeted_status"`

	RetweetCount  uint64 `json:"retweet_count"`
	FavoriteCount uint64 `json:"favorite_count"`

	// Perspectival flags, relative to the authenticating user.
	Favorited *bool `json:"favorited"`
	Retweeted *bool `json:"retweeted"`

	PossiblySensitive *bool   `json:"possibly_sensitive"`
	FilterLevel       *string `json:"filter_level"`

	Entities Entities `json:"entities"`
}

// Entities are the metadata extracted from the text of a Tweet.
type Entities struct {
	Hashtags     []Hashtag     `json:"hashtags"`
	URLs         []URL         `json:"urls"`
	UserMentions []UserMention `json:"user_mentions"`
}

type Hashtag struct {
	Text    string `json:"text"`
	Indices [2]int `json:"indices"`
}

type URL struct {
	URL         string  `json:"url"`
	DisplayURL  *string `json:"display_url"`
	ExpandedURL *string `json:"expanded_url"`
	Indices     [2]int  `json:"indices"`
}

type UserMention struct {
	ID         UserID `json:"id"`
	ScreenName string `json:"screen_name"`
	Name       string `json:"name"`
	Indices    [2]int `json:"indices"`
}

package schema

// DefaultCompanyDomains lists email domains of well-known technology companies.
var DefaultCompanyDomains = []string{
	"microsoft.com", "google.com", "facebook.com", "meta.com", "apple.com",
	"amazon.com", "netflix.com", "uber.com", "airbnb.com", "twitter.com",
	"linkedin.com", "github.com", "gitlab.com", "atlassian.com", "salesforce.com",
	"oracle.com", "ibm.com", "intel.com", "nvidia.com", "amd.com", "cisco.com",
	"vmware.com", "redhat.com", "canonical.com", "mozilla.org", "spotify.com",
	"dropbox.com", "slack.com", "zoom.us", "docker.com", "hashicorp.com",
}

// DefaultAcademicSuffixes lists domain suffixes of academic institutions.
var DefaultAcademicSuffixes = []string{".edu", ".ac.uk", ".edu.au", ".ac.jp", ".edu.cn"}

// DefaultPersonalDomains lists common public webmail domains.
var DefaultPersonalDomains = []string{
	"gmail.com", "yahoo.com", "hotmail.com", "outlook.com", "live.com",
	"icloud.com", "protonmail.com", "mail.com", "yandex.com", "qq.com",
	"163.com", "126.com", "sina.com", "sohu.com", "naver.com", "daum.net",
	"web.de", "gmx.de", "t-online.de", "free.fr", "laposte.net",
}

// DefaultBotIndicators lists substrings that mark automation accounts by login or name.
// Short indicators (see ShortBotIndicators) only match as whole tokens.
var DefaultBotIndicators = []string{
	"bot", "ci", "cd", "automated", "automation",
	"github-actions", "dependabot", "renovate", "greenkeeper",
	"codecov", "codeclimate", "travis-ci", "appveyor", "jenkins-ci",
	"circleci", "gitlab-ci", "azure-devops", "teamcity", "mergify",
}

// DefaultBotEmailPatterns lists substrings that mark automation accounts by email.
var DefaultBotEmailPatterns = []string{
	"github-actions", "dependabot", "renovate", "[bot]", "-bot@", "+bot@",
}

// ShortBotIndicators are matched against whole tokens only to avoid false positives
// such as "ci" inside "lucia" or "bot" inside "abbott".
var ShortBotIndicators = map[string]struct{}{
	"bot": {},
	"ci":  {},
	"cd":  {},
}

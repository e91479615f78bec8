package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board.
type Platform string

const (
	PlatformBoss       Platform = "boss"
	PlatformZhaopin    Platform = "zhaopin"
	Platform51Job      Platform = "51job"
	PlatformLagou      Platform = "lagou"
	PlatformLiepin     Platform = "liepin"
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformUnknown    Platform = "unknown"
)

// platformHosts maps host suffixes to platforms.
var platformHosts = []struct {
	suffix   string
	platform Platform
}{
	{"zhipin.com", PlatformBoss},
	{"zhaopin.com", PlatformZhaopin},
	{"51job.com", Platform51Job},
	{"lagou.com", PlatformLagou},
	{"liepin.com", PlatformLiepin},
	{"greenhouse.io", PlatformGreenhouse},
	{"lever.co", PlatformLever},
}

// DetectPlatform identifies the job board from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	for _, p := range platformHosts {
		if host == p.suffix || strings.HasSuffix(host, "."+p.suffix) {
			return p.platform
		}
	}
	return PlatformUnknown
}

// ContentSelectors returns content selectors for the platform, most specific first.
func (p Platform) ContentSelectors() []string {
	switch p {
	case PlatformBoss:
		return []string{".job-sec-text", ".job-detail-section", ".job-detail"}
	case PlatformZhaopin:
		return []string{".describtion__detail-content", ".describtion", ".job-detail"}
	case Platform51Job:
		return []string{".bmsg.job_msg", ".job_msg", ".tCompany_main"}
	case PlatformLagou:
		return []string{".job-detail", "#job_detail", ".job_bt"}
	case PlatformLiepin:
		return []string{".job-intro-container", ".job-description", ".content-word"}
	case PlatformGreenhouse:
		return []string{".job__description.body", ".job__description", "#content"}
	case PlatformLever:
		return []string{".posting-page", ".section-wrapper.page-full-width", ".content"}
	default:
		return JobPostingSelectors()
	}
}

// NoiseSelectors returns elements to drop before extracting text on the platform.
func (p Platform) NoiseSelectors() []string {
	common := []string{
		"form",
		".application-form",
		".apply-button-container",
		".social-share",
		".share-buttons",
		".cookie-consent",
		".login-dialog",
		".qrcode",
	}

	switch p {
	case PlatformBoss:
		return append(common, ".job-boss-info", ".sider-company", ".job-banner .btn-container")
	case PlatformZhaopin:
		return append(common, ".job-address", ".company-card")
	case Platform51Job:
		return append(common, ".tCompany_sidebar", ".jtag")
	case PlatformLagou:
		return append(common, ".job-address", ".review-area")
	case PlatformLiepin:
		return append(common, ".company-info-container", ".recommend-job")
	case PlatformGreenhouse:
		return append(common, ".application--wrapper", ".voluntary-self-id", "#usa_self_id_section")
	case PlatformLever:
		return append(common, ".apply-section", ".posting-apply")
	default:
		return common
	}
}

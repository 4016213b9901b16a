package scraper

import (
	"spacjobs/jobfeedworker/config"
	"spacjobs/jobfeedworker/services/cache"
)

// detailControlPrefix is the ASP.NET naming-container prefix the site
// assigns to every field on the posting detail page
const detailControlPrefix = "#ContentPlaceHolder1_PubJobDetControl1_"

// CreateScraper creates the board scraper for the configured source site.
// The selectors are coupled to the site's current markup and need revisiting
// whenever the site changes structure.
func CreateScraper(cfg *config.Config, cacheSvc cache.CacheService) *BoardScraper {
	return NewBoardScraper(ScraperConfig{
		BaseURL:      cfg.BaseURL,
		ListURL:      cfg.ListURL,
		PageParam:    cfg.PageParam,
		DetailPath:   "/JobDet.aspx?JobID=",
		MaxPages:     cfg.MaxPages,
		FetchRetries: cfg.FetchRetries,
		RetryBackoff: cfg.RetryBackoff,
		PageDelay:    cfg.PageDelay,
		CacheKey:     "spac_rate_limited",
		BlockTime:    500,
		Source:       "spac",
		List: ListSelectors{
			DetailLinkPattern: `JobDet\.aspx\?JobID=(\d+)`,
			NoResults:         "#ContentPlaceHolder1_lblNoData",
			ExperienceLabel:   "خبرة فنية في مجال الوظيفة",
		},
		Detail: DetailSelectors{
			Title:           detailControlPrefix + "lblJobTitle",
			Organization:    detailControlPrefix + "lblChapt",
			VacancySpec:     detailControlPrefix + "lblVacType",
			Experience:      detailControlPrefix + "lblMinTechExp",
			StartDate:       detailControlPrefix + "lblJobPubDate",
			EndDate:         detailControlPrefix + "lblJobEndDate",
			Qualification:   detailControlPrefix + "lblCertName",
			Location:        detailControlPrefix + "lblGoverName",
			Gender:          detailControlPrefix + "lblGender",
			Age:             detailControlPrefix + "lblAgeDesc",
			Vacancies:       detailControlPrefix + "lblVacNo",
			Salary:          detailControlPrefix + "lblSal",
			Requirements:    detailControlPrefix + "lblJobReqDet",
			AnnouncementPDF: detailControlPrefix + "lblJobTitleURL",
			DescriptionPDF:  detailControlPrefix + "lblJobDescURL",
		},
	}, cacheSvc)
}

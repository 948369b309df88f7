package filter

// Subject-area keywords for social studies positions.
var subjectKeywords = []string{
	"social studies",
	"history",
	"civics",
	"government",
	"economics",
	"geography",
	"political science",
	"world cultures",
	"american studies",
	"global studies",
	"us history",
	"world history",
	"american history",
	"ap history",
	"ap government",
	"ap economics",
	"humanities",
	"sociology",
	"psychology",
	"current events",
}

// Keywords for middle/high school (grades 6-12).
var secondaryKeywords = []string{
	"middle school",
	"high school",
	"secondary",
	"junior high",
	"6th grade", "7th grade", "8th grade",
	"9th grade", "10th grade", "11th grade", "12th grade",
	"grade 6", "grade 7", "grade 8",
	"grade 9", "grade 10", "grade 11", "grade 12",
	"6-12", "7-12", "6-8", "9-12",
}

// Elementary markers. Any hit forces a non-match.
var elementaryKeywords = []string{
	"elementary",
	"primary",
	"kindergarten",
	"pre-k",
	"prek",
	"preschool",
	"1st grade", "2nd grade", "3rd grade", "4th grade", "5th grade",
	"grade 1", "grade 2", "grade 3", "grade 4", "grade 5",
	"k-3", "k-4", "k-5",
}

// Non-teaching role markers. Any hit forces a non-match, even when the
// title also matches a subject keyword.
var excludedRoles = []string{
	"aide",
	"paraprofessional",
	"assistant",
	"substitute",
	"pca",
	"custodian",
	"maintenance",
	"cafeteria",
	"food service",
	"secretary",
	"clerical",
	"bus driver",
	"transportation",
	"nurse",
	"support staff",
}

package gemini

// analysisPromptTemplate asks the model for a strict-JSON comparison of a
// resume against a job description. The keys mirror domain.AnalysisResult's
// JSON tags so the response unmarshals directly.
const analysisPromptTemplate = `You are an expert resume reviewer and career coach.

Compare the resume below against the job description and respond with a JSON
object only - no markdown fences, no commentary. The object must contain
exactly these keys:

- "keywords": string array of important keywords from the job description that
  already appear in the resume
- "missingKeywords": string array of important keywords from the job
  description that do NOT appear in the resume
- "skillsToEmphasize": string array of the candidate's skills most relevant to
  this role
- "experienceToHighlight": string array of experience items the candidate
  should feature prominently
- "recommendedChanges": string array of concrete edits to improve the resume
  for this role
- "matchScore": integer between 0 and 100 estimating how well the resume fits
  the job description

Resume:
{{.ResumeText}}

Job description:
{{.JobDescription}}
`

// coverLetterPromptTemplate asks the model for a plain-text cover letter body.
const coverLetterPromptTemplate = `You are an expert career writer.

Write a professional, personalized cover letter for the position of
{{.Position}} at {{.Company}}. The applicant's name is {{.ApplicantName}}.

Use the resume and job description below to ground every claim in the
candidate's actual experience. The letter should be 300-400 words, written in
a confident but not boastful tone, and must not invent qualifications that do
not appear in the resume. Return only the letter text, with no subject line
and no markdown formatting.

Resume:
{{.ResumeText}}

Job description:
{{.JobDescription}}
`

// analysisPromptData carries the fields the analysis template needs.
type analysisPromptData struct {
	ResumeText     string
	JobDescription string
}

// coverLetterPromptData carries the fields the cover letter template needs.
type coverLetterPromptData struct {
	ResumeText     string
	JobDescription string
	Company        string
	Position       string
	ApplicantName  string
}

// analysisSchema is the wire shape of the model's analysis response.
// MatchScore is a pointer so a response that omits the key is caught as
// malformed rather than silently defaulting to zero.
type analysisSchema struct {
	Keywords              []string `json:"keywords"`
	MissingKeywords       []string `json:"missingKeywords"`
	SkillsToEmphasize     []string `json:"skillsToEmphasize"`
	ExperienceToHighlight []string `json:"experienceToHighlight"`
	RecommendedChanges    []string `json:"recommendedChanges"`
	MatchScore            *int     `json:"matchScore"`
}

// Generation temperatures. Analysis wants deterministic structure; cover
// letters tolerate more variety.
const (
	analysisTemperature    float32 = 0.4
	coverLetterTemperature float32 = 0.6
)

// Output token ceilings. The analysis JSON is compact; a 400 word cover
// letter fits comfortably under 1024 tokens.
const (
	analysisMaxOutputTokens    int32 = 2048
	coverLetterMaxOutputTokens int32 = 1024
)

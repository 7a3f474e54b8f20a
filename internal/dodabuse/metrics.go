package dodabuse

// Business rules from the source agency's reporting standard. Both metrics
// are per-record integers with no side effects.

// reportedChildAbuseFlag is 1 when the victim decodes to "Child" and a
// met-criteria determination was recorded either way ("Y" or "N"); else 0.
func reportedChildAbuseFlag(victimTypeDesc *string, metCriteria string) int {
	if victimTypeDesc == nil || *victimTypeDesc != "Child" {
		return 0
	}
	if metCriteria == "Y" || metCriteria == "N" {
		return 1
	}
	return 0
}

// metCriteriaSeverityCount counts, for substantiated child abuse only, how
// many of the four abuse-category severities are present and at least 1.
// An absent severity contributes nothing. Range 0-4.
func metCriteriaSeverityCount(victimTypeDesc *string, metCriteria string, severities ...*int) int {
	if metCriteria != "Y" {
		return 0
	}
	if victimTypeDesc == nil || *victimTypeDesc != "Child" {
		return 0
	}

	count := 0
	for _, severity := range severities {
		if severity != nil && *severity >= 1 {
			count++
		}
	}
	return count
}

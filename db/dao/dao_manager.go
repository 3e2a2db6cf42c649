package dao

type DaoManager struct {
	*ElectionDao
	*CandidateDao
	*VoteDao
	*RosterDao
	*CheckpointDao
}

func NewDaoManager(electionDao *ElectionDao, candidateDao *CandidateDao, voteDao *VoteDao,
	rosterDao *RosterDao, checkpointDao *CheckpointDao,
) *DaoManager {
	return &DaoManager{
		ElectionDao:   electionDao,
		CandidateDao:  candidateDao,
		VoteDao:       voteDao,
		RosterDao:     rosterDao,
		CheckpointDao: checkpointDao,
	}
}
